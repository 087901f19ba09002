package testhelpers

import (
	"context"
	"time"

	"iqbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockOracle is a mock implementation of Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Complete(ctx context.Context, systemPrompt, userPrompt string, maxOutputTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, maxOutputTokens)
	return args.String(0), args.Error(1)
}

// MockChannelHistorian is a mock implementation of ChannelHistorian
type MockChannelHistorian struct {
	mock.Mock
}

func (m *MockChannelHistorian) RecentMessages(ctx context.Context, channelID, beforeMessageID int64, window time.Duration, limit int) ([]entities.ChannelMessage, error) {
	args := m.Called(ctx, channelID, beforeMessageID, window, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ChannelMessage), args.Error(1)
}

// MockNameResolver is a mock implementation of NameResolver
type MockNameResolver struct {
	mock.Mock
}

func (m *MockNameResolver) MemberNames(ctx context.Context, guildID, userID int64) (string, string, error) {
	args := m.Called(ctx, guildID, userID)
	return args.String(0), args.String(1), args.Error(2)
}

// MockWagerNotifier is a mock implementation of WagerNotifier
type MockWagerNotifier struct {
	mock.Mock
}

func (m *MockWagerNotifier) AnnounceVerdict(ctx context.Context, wager *entities.Wager, verdictText string, changes []entities.RatingChange) error {
	args := m.Called(ctx, wager, verdictText, changes)
	return args.Error(0)
}

func (m *MockWagerNotifier) AnnounceDeclined(ctx context.Context, wager *entities.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerNotifier) AnnounceFailure(ctx context.Context, wager *entities.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}
