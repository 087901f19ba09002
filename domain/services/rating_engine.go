package services

import (
	"math"

	"iqbot/domain/entities"
)

// RatingConfig holds the tunables for the rating update algorithm.
type RatingConfig struct {
	// Scale is the logistic curve divisor (400 in classic Elo).
	Scale float64
	// MaxDelta bounds the absolute rating change per resolution.
	MaxDelta float64
	// StrictZeroSum makes each resolution a symmetric exchange: both deltas
	// are derived from the mean of the two participants' K factors, so the
	// pair nets to zero even when their histories differ.
	StrictZeroSum bool
}

// RatingUpdate is the result of applying one resolution to a pair of ratings.
type RatingUpdate struct {
	Rating1 int
	Rating2 int
	Delta1  float64
	Delta2  float64
}

// RatingEngine computes rating deltas from two ratings, an outcome, and
// per-participant history. It performs no I/O.
type RatingEngine struct {
	cfg RatingConfig
}

// NewRatingEngine creates a rating engine with the given configuration.
func NewRatingEngine(cfg RatingConfig) *RatingEngine {
	return &RatingEngine{cfg: cfg}
}

// ExpectedScore returns the proposer's predicted win probability from the
// rating gap: 1 / (1 + 10^((r2-r1)/scale)).
func (e *RatingEngine) ExpectedScore(r1, r2 int) float64 {
	return 1 / (1 + math.Pow(10, float64(r2-r1)/e.cfg.Scale))
}

// UpdateRatings computes both participants' new ratings for the given
// outcome. Deltas are clamped to ±MaxDelta and the final rating is the input
// rating plus the clamped delta, rounded half away from zero. The caller
// increments each participant's resolution count by exactly one alongside
// the returned ratings.
//
// Returns a ValidationError for None and Error outcomes; callers must have
// filtered those out already.
func (e *RatingEngine) UpdateRatings(p1, p2 *entities.Participant, outcome entities.Outcome) (*RatingUpdate, error) {
	if !outcome.IsDecisive() {
		return nil, entities.NewValidationError("outcome %s cannot update ratings", outcome)
	}

	expected1 := e.ExpectedScore(p1.Rating, p2.Rating)
	expected2 := 1 - expected1

	s1 := outcome.Score()
	s2 := 1 - s1

	k1 := kFactor(p1.Rating, p1.NumResolutions)
	k2 := kFactor(p2.Rating, p2.NumResolutions)

	var delta1, delta2 float64
	if e.cfg.StrictZeroSum {
		k := (k1 + k2) / 2
		delta1 = e.clamp(k * (s1 - expected1))
		delta2 = -delta1
	} else {
		delta1 = e.clamp(k1 * (s1 - expected1))
		delta2 = e.clamp(k2 * (s2 - expected2))
	}

	rating1 := int(math.Round(float64(p1.Rating) + delta1))
	rating2 := int(math.Round(float64(p2.Rating) + delta2))
	if e.cfg.StrictZeroSum {
		// rounding each side independently can shift the pair's sum by one;
		// mirror the rounded exchange so it stays zero-sum in integers too
		rating2 = p1.Rating + p2.Rating - rating1
	}

	return &RatingUpdate{
		Rating1: rating1,
		Rating2: rating2,
		Delta1:  delta1,
		Delta2:  delta2,
	}, nil
}

func (e *RatingEngine) clamp(delta float64) float64 {
	return math.Max(math.Min(delta, e.cfg.MaxDelta), -e.cfg.MaxDelta)
}

// kFactor is the adaptive per-participant update coefficient. Ratings far
// from the baseline damp the base coefficient, and accumulated resolutions
// shrink it toward the floor of 1, converging volatility over time.
func kFactor(rating, numResolutions int) float64 {
	deviation := math.Abs(float64(rating - entities.BaselineRating))
	kBase := math.Max(6, 16-deviation/10)
	return math.Max(kBase/math.Sqrt(math.Max(float64(numResolutions), 1)), 1)
}
