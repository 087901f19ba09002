package entities

import (
	"strings"
)

// Outcome is the parsed result of an arbitration verdict.
type Outcome int

const (
	OutcomeProposerWins Outcome = iota
	OutcomeOpponentWins
	OutcomeDraw
	OutcomeNone
	OutcomeError
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeProposerWins:
		return "proposer_wins"
	case OutcomeOpponentWins:
		return "opponent_wins"
	case OutcomeDraw:
		return "draw"
	case OutcomeNone:
		return "none"
	default:
		return "error"
	}
}

// Score returns the proposer's score value for the rating update:
// 1 for a proposer win, 0 for an opponent win, 0.5 for a draw.
// Only valid for decisive outcomes.
func (o Outcome) Score() float64 {
	switch o {
	case OutcomeProposerWins:
		return 1
	case OutcomeOpponentWins:
		return 0
	default:
		return 0.5
	}
}

// IsDecisive reports whether the outcome may reach the rating engine.
// None and Error outcomes never do; the pipeline commits Failed instead.
func (o Outcome) IsDecisive() bool {
	return o == OutcomeProposerWins || o == OutcomeOpponentWins || o == OutcomeDraw
}

// ResolveWinnerToken maps the parsed winner token to an outcome. Matching is
// case-insensitive against the proposer's name, the opponent's name, and the
// literals "draw" and "none"; anything else is an error outcome.
func ResolveWinnerToken(token, proposerName, opponentName string) Outcome {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case strings.ToLower(proposerName):
		return OutcomeProposerWins
	case strings.ToLower(opponentName):
		return OutcomeOpponentWins
	case "draw":
		return OutcomeDraw
	case "none":
		return OutcomeNone
	default:
		return OutcomeError
	}
}

// Verdict is the parsed output of an arbitration call.
type Verdict struct {
	// WinnerToken is the raw winner name extracted from the marker pattern.
	WinnerToken string
	// Text is the oracle's response with each participant's canonical name
	// replaced by their display form, suitable for the user-facing message.
	Text string
}
