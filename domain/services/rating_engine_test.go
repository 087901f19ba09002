package services

import (
	"testing"

	"iqbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParticipant(rating, numResolutions int) *entities.Participant {
	return &entities.Participant{Rating: rating, NumResolutions: numResolutions}
}

func TestRatingEngine_ExpectedScore(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	tests := []struct {
		name     string
		r1       int
		r2       int
		expected float64
	}{
		{name: "equal ratings", r1: 100, r2: 100, expected: 0.5},
		{name: "scale-sized gap favors the higher side", r1: 500, r2: 100, expected: 10.0 / 11.0},
		{name: "scale-sized gap against the lower side", r1: 100, r2: 500, expected: 1.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, engine.ExpectedScore(tt.r1, tt.r2), 1e-9)
		})
	}
}

func TestRatingEngine_ExpectedScoresSumToOne(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	pairs := [][2]int{{100, 100}, {100, 180}, {62, 143}, {300, 40}}
	for _, pair := range pairs {
		sum := engine.ExpectedScore(pair[0], pair[1]) + engine.ExpectedScore(pair[1], pair[0])
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestRatingEngine_UpdateRatings_FreshParticipants(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	// two baseline participants with no history: K is 16, expected score 0.5
	update, err := engine.UpdateRatings(newParticipant(100, 0), newParticipant(100, 0), entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.Equal(t, 108, update.Rating1)
	assert.Equal(t, 92, update.Rating2)
	assert.InDelta(t, 8, update.Delta1, 1e-9)
	assert.InDelta(t, -8, update.Delta2, 1e-9)
}

func TestRatingEngine_UpdateRatings_DrawBetweenEquals(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	update, err := engine.UpdateRatings(newParticipant(100, 0), newParticipant(100, 0), entities.OutcomeDraw)
	require.NoError(t, err)

	assert.Equal(t, 100, update.Rating1)
	assert.Equal(t, 100, update.Rating2)
}

func TestRatingEngine_UpdateRatings_ClampsDelta(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 5})

	update, err := engine.UpdateRatings(newParticipant(100, 0), newParticipant(100, 0), entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.Equal(t, 105, update.Rating1)
	assert.Equal(t, 95, update.Rating2)
}

func TestRatingEngine_UpdateRatings_RejectsNonDecisiveOutcomes(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	for _, outcome := range []entities.Outcome{entities.OutcomeNone, entities.OutcomeError} {
		update, err := engine.UpdateRatings(newParticipant(100, 0), newParticipant(100, 0), outcome)
		assert.Nil(t, update)

		var validationErr *entities.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

func TestRatingEngine_UpdateRatings_StrictZeroSum(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20, StrictZeroSum: true})

	// asymmetric histories: the veteran's K is much smaller than the
	// newcomer's, so without strict mode the pair would not net to zero
	newcomer := newParticipant(100, 0)
	veteran := newParticipant(100, 100)

	update, err := engine.UpdateRatings(newcomer, veteran, entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.InDelta(t, -update.Delta2, update.Delta1, 1e-9)
	assert.Equal(t, newcomer.Rating+veteran.Rating, update.Rating1+update.Rating2)
}

func TestRatingEngine_UpdateRatings_StrictZeroSumSurvivesRounding(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20, StrictZeroSum: true})

	// K factors of 16 and 2 give a mean of 9 and a delta of exactly 4.5;
	// rounding each side on its own would land on 105 and 96
	newcomer := newParticipant(100, 0)
	seasoned := newParticipant(100, 64)

	update, err := engine.UpdateRatings(newcomer, seasoned, entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.InDelta(t, 4.5, update.Delta1, 1e-9)
	assert.Equal(t, 105, update.Rating1)
	assert.Equal(t, 95, update.Rating2)
	assert.Equal(t, newcomer.Rating+seasoned.Rating, update.Rating1+update.Rating2)
}

func TestRatingEngine_UpdateRatings_IndependentDeltasWithoutStrictMode(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	update, err := engine.UpdateRatings(newParticipant(100, 0), newParticipant(100, 100), entities.OutcomeProposerWins)
	require.NoError(t, err)

	// each side moves by its own K: 16 for the newcomer, 1.6 for the veteran
	assert.InDelta(t, 8, update.Delta1, 1e-9)
	assert.InDelta(t, -0.8, update.Delta2, 1e-9)
}

func TestRatingEngine_UpdateRatings_HistoryDampsVolatility(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	fresh, err := engine.UpdateRatings(newParticipant(100, 0), newParticipant(100, 0), entities.OutcomeProposerWins)
	require.NoError(t, err)

	seasoned, err := engine.UpdateRatings(newParticipant(100, 64), newParticipant(100, 0), entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.Less(t, seasoned.Delta1, fresh.Delta1)
	assert.Greater(t, seasoned.Delta1, 0.0)
}

func TestRatingEngine_UpdateRatings_DeviationDampsBaseCoefficient(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	// 200 vs 200 keeps expected at 0.5, but the 100-point deviation from the
	// baseline drops the base K from 16 to 6
	update, err := engine.UpdateRatings(newParticipant(200, 0), newParticipant(200, 0), entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.InDelta(t, 3, update.Delta1, 1e-9)
	assert.Equal(t, 203, update.Rating1)
}

func TestRatingEngine_UpdateRatings_FloorKeepsRatingsMoving(t *testing.T) {
	engine := NewRatingEngine(RatingConfig{Scale: 400, MaxDelta: 20})

	// enough history to push K below 1 without the floor
	update, err := engine.UpdateRatings(newParticipant(100, 10000), newParticipant(100, 10000), entities.OutcomeProposerWins)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, update.Delta1, 1e-9)
	assert.Equal(t, 101, update.Rating1)
}
