package application

import (
	"context"

	"iqbot/domain/interfaces"
)

// UnitOfWork represents one database transaction scope. Every wager
// transition is a single unit of work around the repository's conditional
// status update; no in-process lock is ever held across the oracle call.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WagerRepository() interfaces.WagerRepository
	ParticipantRepository() interfaces.ParticipantRepository
}

// UnitOfWorkFactory creates units of work. A single factory is constructed
// at process start and passed to every component that touches the store.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
