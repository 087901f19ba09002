package services

import (
	"context"
	"errors"
	"testing"

	"iqbot/domain/entities"
	"iqbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = NamedParticipant{UserID: 1, Username: "alice", Display: "Alice"}
	bob   = NamedParticipant{UserID: 2, Username: "bob", Display: "Bobby"}
)

func newTestArbiter(oracle *testhelpers.MockOracle) *Arbiter {
	return NewArbiter(oracle, ArbiterConfig{
		SystemInstruction: "judge instruction",
		PromptReserve:     256,
		OutputReserve:     512,
	})
}

func TestArbiter_Resolve_ParsesWinner(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		expectedToken string
	}{
		{
			name:          "lowercase marker",
			response:      "winner: alice** because her argument held up",
			expectedToken: "alice",
		},
		{
			name:          "mixed case marker",
			response:      "Winner: Alice** the evidence was on her side",
			expectedToken: "alice",
		},
		{
			name:          "extra spacing around the name",
			response:      "winner:   bob  ** a narrow call",
			expectedToken: "bob",
		},
		{
			name:          "draw token",
			response:      "winner: draw** both sides made the same point",
			expectedToken: "draw",
		},
		{
			name:          "none token",
			response:      "winner: none** no argument actually took place",
			expectedToken: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := new(testhelpers.MockOracle)
			oracle.On("Complete", mock.Anything, "judge instruction", mock.Anything, 512).
				Return(tt.response, nil)

			verdict, err := newTestArbiter(oracle).Resolve(context.Background(), "some transcript", "who won?", alice, bob)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedToken, verdict.WinnerToken)
			oracle.AssertExpectations(t)
		})
	}
}

func TestArbiter_Resolve_ReplacesUsernamesWithDisplayNames(t *testing.T) {
	oracle := new(testhelpers.MockOracle)
	oracle.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("winner: alice** alice argued circles around bob", nil)

	verdict, err := newTestArbiter(oracle).Resolve(context.Background(), "some transcript", "who won?", alice, bob)
	require.NoError(t, err)

	assert.Contains(t, verdict.Text, "Alice")
	assert.Contains(t, verdict.Text, "Bobby")
	assert.NotContains(t, verdict.Text, "bob ")
}

func TestArbiter_Resolve_MissingMarker(t *testing.T) {
	oracle := new(testhelpers.MockOracle)
	oracle.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("I refuse to pick a side here.", nil)

	verdict, err := newTestArbiter(oracle).Resolve(context.Background(), "some transcript", "who won?", alice, bob)
	assert.Nil(t, verdict)

	var parseErr *entities.VerdictParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "I refuse to pick a side here.", parseErr.Response)
}

func TestArbiter_Resolve_EmptyTranscriptSkipsOracle(t *testing.T) {
	oracle := new(testhelpers.MockOracle)

	verdict, err := newTestArbiter(oracle).Resolve(context.Background(), "", "who won?", alice, bob)
	assert.Nil(t, verdict)

	var oracleErr *entities.OracleError
	assert.ErrorAs(t, err, &oracleErr)
	oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArbiter_Resolve_EmptyResponse(t *testing.T) {
	oracle := new(testhelpers.MockOracle)
	oracle.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("   \n", nil)

	verdict, err := newTestArbiter(oracle).Resolve(context.Background(), "some transcript", "who won?", alice, bob)
	assert.Nil(t, verdict)

	var oracleErr *entities.OracleError
	assert.ErrorAs(t, err, &oracleErr)
}

func TestArbiter_Resolve_OracleFailure(t *testing.T) {
	oracle := new(testhelpers.MockOracle)
	oracle.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset"))

	verdict, err := newTestArbiter(oracle).Resolve(context.Background(), "some transcript", "who won?", alice, bob)
	assert.Nil(t, verdict)

	var oracleErr *entities.OracleError
	require.ErrorAs(t, err, &oracleErr)
	assert.ErrorContains(t, err, "connection reset")
}

func TestArbiter_Resolve_QuestionOverPromptReserve(t *testing.T) {
	oracle := new(testhelpers.MockOracle)
	arbiter := NewArbiter(oracle, ArbiterConfig{
		SystemInstruction: "judge instruction",
		PromptReserve:     2,
		OutputReserve:     512,
	})

	verdict, err := arbiter.Resolve(context.Background(), "some transcript", "a question well over two tokens long", alice, bob)
	assert.Nil(t, verdict)
	require.Error(t, err)

	// a misconfiguration, not an oracle failure
	var oracleErr *entities.OracleError
	assert.False(t, errors.As(err, &oracleErr))
	oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveWinnerToken(t *testing.T) {
	tests := []struct {
		token    string
		expected entities.Outcome
	}{
		{token: "alice", expected: entities.OutcomeProposerWins},
		{token: "ALICE", expected: entities.OutcomeProposerWins},
		{token: "bob", expected: entities.OutcomeOpponentWins},
		{token: "draw", expected: entities.OutcomeDraw},
		{token: "none", expected: entities.OutcomeNone},
		{token: "charlie", expected: entities.OutcomeError},
		{token: "", expected: entities.OutcomeError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, entities.ResolveWinnerToken(tt.token, "alice", "bob"), "token %q", tt.token)
	}
}
