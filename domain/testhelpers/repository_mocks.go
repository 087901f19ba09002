package testhelpers

import (
	"context"
	"time"

	"iqbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.Wager, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) TransitionStatus(ctx context.Context, messageID int64, from, to entities.WagerStatus) (bool, error) {
	args := m.Called(ctx, messageID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) UpdateResolution(ctx context.Context, messageID int64, winnerID *int64, verdict string) error {
	args := m.Called(ctx, messageID, winnerID, verdict)
	return args.Error(0)
}

func (m *MockWagerRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*entities.Wager, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) ListAcceptedOlderThan(ctx context.Context, cutoff time.Time) ([]*entities.Wager, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) GetOrCreate(ctx context.Context, guildID, userID int64) (*entities.Participant, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Participant), args.Error(1)
}

func (m *MockParticipantRepository) UpdateRating(ctx context.Context, id int64, rating, numResolutions int) error {
	args := m.Called(ctx, id, rating, numResolutions)
	return args.Error(0)
}

func (m *MockParticipantRepository) SetRating(ctx context.Context, guildID, userID int64, rating int) error {
	args := m.Called(ctx, guildID, userID, rating)
	return args.Error(0)
}

func (m *MockParticipantRepository) SetPresent(ctx context.Context, userID int64, present bool) error {
	args := m.Called(ctx, userID, present)
	return args.Error(0)
}
