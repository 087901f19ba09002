package services

import (
	"fmt"
	"strings"

	"iqbot/domain/entities"
)

// TokenBudget describes the model-context allocation for one oracle call.
// The transcript gets whatever remains of ModelLimit after the reserves.
type TokenBudget struct {
	ModelLimit      int
	OverheadReserve int
	PromptReserve   int
	OutputReserve   int
}

// TranscriptBudget returns the token budget available to the transcript once
// all reserves and the fixed instruction cost are subtracted.
func (b TokenBudget) TranscriptBudget(instructionCost int) int {
	return b.ModelLimit - b.OverheadReserve - b.PromptReserve - b.OutputReserve - instructionCost
}

// ContextAssembler turns bounded, newest-first message history into a
// token-budgeted transcript in chronological order. Same input and same
// budget always yield the same transcript and stopping point.
type ContextAssembler struct {
	budget          TokenBudget
	instructionCost int
}

// NewContextAssembler creates an assembler for the given budget and fixed
// instruction text.
func NewContextAssembler(budget TokenBudget, instruction string) *ContextAssembler {
	return &ContextAssembler{
		budget:          budget,
		instructionCost: EstimateTokens(instruction),
	}
}

// Assemble walks the history newest first, skipping bot-authored messages,
// and includes each formatted message while it fits the remaining budget.
// The walk stops at the first message that does not fit: recency ordering
// matters more than maximizing the included count, so no smaller later
// message is considered. Returns the included messages joined in
// chronological order, or "" when nothing fit.
func (a *ContextAssembler) Assemble(history []entities.ChannelMessage) string {
	remaining := a.budget.TranscriptBudget(a.instructionCost)

	var included []string
	for _, m := range history {
		if m.AuthorIsBot {
			continue
		}
		line := FormatMessageLine(m)
		// one extra token per line covers the join separator
		cost := EstimateTokens(line) + 1
		if cost > remaining {
			break
		}
		included = append(included, line)
		remaining -= cost
	}

	if len(included) == 0 {
		return ""
	}

	// reverse from newest-first to chronological
	for i, j := 0, len(included)-1; i < j; i, j = i+1, j-1 {
		included[i], included[j] = included[j], included[i]
	}

	return strings.Join(included, "\n")
}

// FormatMessageLine renders one history record as a transcript line.
func FormatMessageLine(m entities.ChannelMessage) string {
	if m.ReplyToID != nil {
		return fmt.Sprintf("[id=%d author=%d (replying to %d)]: %s", m.ID, m.AuthorID, *m.ReplyToID, m.Content)
	}
	return fmt.Sprintf("[id=%d author=%d]: %s", m.ID, m.AuthorID, m.Content)
}

// EstimateTokens approximates the token cost of s as one token per four
// bytes, rounded up. The estimate is deliberately coarse but deterministic,
// which is what the budget accounting needs.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + 3) / 4
}
