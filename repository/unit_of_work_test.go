package repository

import (
	"context"
	"testing"

	"iqbot/domain/entities"
	"iqbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitMakesChangesVisible(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	wager := &entities.Wager{
		MessageID:  7000,
		GuildID:    1,
		ChannelID:  2,
		ProposerID: 10,
		OpponentID: 20,
		Status:     entities.WagerStatusOpen,
	}
	require.NoError(t, uow.WagerRepository().Create(ctx, wager))
	require.NoError(t, uow.Commit())

	found, err := NewWagerRepository(testDB.DB).GetByMessageID(ctx, 7000)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	wager := &entities.Wager{
		MessageID:  7001,
		GuildID:    1,
		ChannelID:  2,
		ProposerID: 10,
		OpponentID: 20,
		Status:     entities.WagerStatusOpen,
	}
	require.NoError(t, uow.WagerRepository().Create(ctx, wager))
	require.NoError(t, uow.Rollback())

	found, err := NewWagerRepository(testDB.DB).GetByMessageID(ctx, 7001)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUnitOfWork_RollbackAfterCommitIsSafe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}

func TestUnitOfWork_AccessBeforeBeginPanics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	uow := factory.Create()

	assert.Panics(t, func() { uow.WagerRepository() })
	assert.Panics(t, func() { uow.ParticipantRepository() })
}
