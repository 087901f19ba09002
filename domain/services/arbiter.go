package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"iqbot/domain/entities"
	"iqbot/domain/interfaces"
)

// winnerMarker extracts the winner name from the oracle's lower-cased
// response: the token between "winner:" and the bold delimiter.
var winnerMarker = regexp.MustCompile(`winner:\s*([^\n*]+?)\s*\*\*`)

// ArbiterConfig holds the prompt construction settings.
type ArbiterConfig struct {
	// SystemInstruction is the fixed judge instruction sent as the system
	// prompt segment.
	SystemInstruction string
	// PromptReserve is the token ceiling for the question segment.
	// Exceeding it is a programming or configuration error, not a runtime
	// condition to recover from.
	PromptReserve int
	// OutputReserve is the maximum output tokens requested from the oracle.
	OutputReserve int
}

// Arbiter wraps the oracle call: it builds the two prompt segments, enforces
// the output-token cap, and parses the verdict out of the response.
type Arbiter struct {
	oracle interfaces.Oracle
	cfg    ArbiterConfig
}

// NewArbiter creates an arbiter over the given oracle.
func NewArbiter(oracle interfaces.Oracle, cfg ArbiterConfig) *Arbiter {
	return &Arbiter{oracle: oracle, cfg: cfg}
}

// ArbitrationQuestion is the fixed question posed for a wager between the
// two named participants.
func ArbitrationQuestion(proposerName, opponentName string) string {
	return fmt.Sprintf("Who won the argument, %s or %s? Respond with \"winner: <name>**\" before your analysis.", proposerName, opponentName)
}

// Resolve asks the oracle for a verdict on the transcript and question.
// An empty transcript means no context is available and fails the resolution
// without calling the oracle. The returned verdict carries the raw winner
// token plus the response text with canonical names replaced by display
// forms.
func (a *Arbiter) Resolve(ctx context.Context, transcript, question string, proposer, opponent NamedParticipant) (*entities.Verdict, error) {
	if transcript == "" {
		return nil, &entities.OracleError{Err: errors.New("no conversation context available")}
	}

	if cost := EstimateTokens(question); cost > a.cfg.PromptReserve {
		return nil, fmt.Errorf("question segment of %d tokens exceeds prompt reserve %d", cost, a.cfg.PromptReserve)
	}

	userPrompt := fmt.Sprintf("Based on the following conversation:\n\n%s\n\nplease answer: %s", transcript, question)

	response, err := a.oracle.Complete(ctx, a.cfg.SystemInstruction, userPrompt, a.cfg.OutputReserve)
	if err != nil {
		return nil, &entities.OracleError{Err: err}
	}
	if strings.TrimSpace(response) == "" {
		return nil, &entities.OracleError{Err: errors.New("empty oracle response")}
	}

	match := winnerMarker.FindStringSubmatch(strings.ToLower(response))
	if match == nil {
		return nil, &entities.VerdictParseError{Response: response}
	}

	text := strings.ReplaceAll(response, proposer.Username, proposer.Display)
	text = strings.ReplaceAll(text, opponent.Username, opponent.Display)

	return &entities.Verdict{
		WinnerToken: strings.TrimSpace(match[1]),
		Text:        text,
	}, nil
}

// NamedParticipant pairs a participant's canonical username with the display
// form used in announcements.
type NamedParticipant struct {
	UserID   int64
	Username string
	Display  string
}
