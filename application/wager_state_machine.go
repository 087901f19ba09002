package application

import (
	"context"
	"fmt"
	"time"

	"iqbot/domain/entities"
	"iqbot/domain/interfaces"
	"iqbot/domain/services"

	log "github.com/sirupsen/logrus"
)

// StateMachineConfig holds the orchestration tunables.
type StateMachineConfig struct {
	// HistoryWindow and HistoryLimit bound the conversation context read
	// for an arbitration call.
	HistoryWindow time.Duration
	HistoryLimit  int
	// OracleTimeout bounds the oracle call; exceeding it fails the
	// resolution like any other oracle error.
	OracleTimeout time.Duration
	// ExpiryThreshold is the age past which an Open wager may be expired.
	ExpiryThreshold time.Duration
}

// WagerStateMachine orchestrates the wager lifecycle:
// Open -> Accepted -> {Resolved, Failed} and Open -> {Declined, Expired}.
// Every transition is a single transaction around the repository's
// compare-and-set, so concurrent handlers and the sweeper race safely:
// whichever transition commits first wins and the loser observes
// ErrStateConflict.
type WagerStateMachine struct {
	uowFactory UnitOfWorkFactory
	ratings    *services.RatingEngine
	assembler  *services.ContextAssembler
	arbiter    *services.Arbiter
	historian  interfaces.ChannelHistorian
	names      interfaces.NameResolver
	notifier   interfaces.WagerNotifier
	cfg        StateMachineConfig
}

// NewWagerStateMachine creates the state machine with its collaborators.
func NewWagerStateMachine(
	uowFactory UnitOfWorkFactory,
	ratings *services.RatingEngine,
	assembler *services.ContextAssembler,
	arbiter *services.Arbiter,
	historian interfaces.ChannelHistorian,
	names interfaces.NameResolver,
	notifier interfaces.WagerNotifier,
	cfg StateMachineConfig,
) *WagerStateMachine {
	return &WagerStateMachine{
		uowFactory: uowFactory,
		ratings:    ratings,
		assembler:  assembler,
		arbiter:    arbiter,
		historian:  historian,
		names:      names,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// Propose creates a new Open wager keyed by the proposal message ID.
func (m *WagerStateMachine) Propose(ctx context.Context, guildID, channelID, messageID, proposerID, opponentID int64) (*entities.Wager, error) {
	if proposerID == opponentID {
		return nil, entities.NewValidationError("you cannot bet against yourself")
	}

	wager := &entities.Wager{
		MessageID:  messageID,
		GuildID:    guildID,
		ChannelID:  channelID,
		ProposerID: proposerID,
		OpponentID: opponentID,
		Status:     entities.WagerStatusOpen,
	}

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.WagerRepository().Create(ctx, wager); err != nil {
		return nil, fmt.Errorf("failed to create wager: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit wager: %w", err)
	}

	log.WithFields(log.Fields{
		"message_id":  messageID,
		"guild_id":    guildID,
		"proposer_id": proposerID,
		"opponent_id": opponentID,
	}).Info("Wager proposed")

	return wager, nil
}

// Accept transitions the wager Open -> Accepted and runs the resolution
// pipeline. The Open -> Accepted commit happens before any slow work, making
// the wager ineligible for Decline or Expire; the pipeline then ends in a
// single Accepted -> {Resolved, Failed} transaction.
//
// Returns a ValidationError when actorID is not the challenged opponent and
// ErrStateConflict when the wager is no longer Open.
func (m *WagerStateMachine) Accept(ctx context.Context, messageID, actorID int64) error {
	wager, err := m.transitionOpen(ctx, messageID, actorID, entities.WagerStatusAccepted)
	if err != nil {
		return err
	}

	return m.resolveAccepted(ctx, wager)
}

// Decline transitions the wager Open -> Declined. No rating effect.
func (m *WagerStateMachine) Decline(ctx context.Context, messageID, actorID int64) error {
	wager, err := m.transitionOpen(ctx, messageID, actorID, entities.WagerStatusDeclined)
	if err != nil {
		return err
	}

	if err := m.notifier.AnnounceDeclined(ctx, wager); err != nil {
		log.Errorf("Error announcing declined wager %d: %v", messageID, err)
	}
	return nil
}

// transitionOpen validates the actor and commits an Open -> to transition.
func (m *WagerStateMachine) transitionOpen(ctx context.Context, messageID, actorID int64, to entities.WagerStatus) (*entities.Wager, error) {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wager, err := uow.WagerRepository().GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	if wager == nil {
		return nil, entities.ErrWagerNotFound
	}
	if wager.OpponentID != actorID {
		return nil, entities.NewValidationError("only the challenged user can respond to this wager")
	}

	ok, err := uow.WagerRepository().TransitionStatus(ctx, messageID, entities.WagerStatusOpen, to)
	if err != nil {
		return nil, fmt.Errorf("failed to transition wager: %w", err)
	}
	if !ok {
		return nil, entities.ErrStateConflict
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	wager.Status = to
	log.WithFields(log.Fields{
		"message_id": messageID,
		"status":     to,
	}).Info("Wager transitioned")

	return wager, nil
}

// Expire transitions a stale Open wager to Expired. Called only by the
// sweeper. A wager younger than the threshold, or one that raced a
// concurrent Accept or Decline, is left untouched.
func (m *WagerStateMachine) Expire(ctx context.Context, wager *entities.Wager) error {
	if !wager.OlderThan(m.cfg.ExpiryThreshold, time.Now()) {
		return nil
	}

	ok, err := m.casTransition(ctx, wager.MessageID, entities.WagerStatusOpen, entities.WagerStatusExpired)
	if err != nil {
		return err
	}
	if ok {
		log.Infof("Expired stale wager %d", wager.MessageID)
	}
	return nil
}

// ForceFail moves a wager stuck in Accepted (for example after a process
// restart between the Accept commit and the resolution commit) to Failed.
func (m *WagerStateMachine) ForceFail(ctx context.Context, wager *entities.Wager) error {
	ok, err := m.casTransition(ctx, wager.MessageID, entities.WagerStatusAccepted, entities.WagerStatusFailed)
	if err != nil {
		return err
	}
	if ok {
		log.Warnf("Forced stuck wager %d from accepted to failed", wager.MessageID)
	}
	return nil
}

// casTransition runs one compare-and-set transition in its own transaction.
func (m *WagerStateMachine) casTransition(ctx context.Context, messageID int64, from, to entities.WagerStatus) (bool, error) {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ok, err := uow.WagerRepository().TransitionStatus(ctx, messageID, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition wager: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transition: %w", err)
	}
	return true, nil
}

// resolveAccepted runs the resolution pipeline for a freshly accepted wager:
// assemble context, call the oracle, parse the verdict, apply ratings. Any
// stage error commits Failed with no rating change.
func (m *WagerStateMachine) resolveAccepted(ctx context.Context, wager *entities.Wager) error {
	if err := m.runResolution(ctx, wager); err != nil {
		log.WithFields(log.Fields{
			"message_id": wager.MessageID,
			"error":      err,
		}).Error("Wager resolution failed")

		if err := m.ForceFail(ctx, wager); err != nil {
			log.Errorf("Error failing wager %d: %v", wager.MessageID, err)
		}
		if err := m.notifier.AnnounceFailure(ctx, wager); err != nil {
			log.Errorf("Error announcing failed wager %d: %v", wager.MessageID, err)
		}
		return err
	}
	return nil
}

func (m *WagerStateMachine) runResolution(ctx context.Context, wager *entities.Wager) error {
	proposerName, proposerDisplay, err := m.names.MemberNames(ctx, wager.GuildID, wager.ProposerID)
	if err != nil {
		return fmt.Errorf("failed to resolve proposer: %w", err)
	}
	opponentName, opponentDisplay, err := m.names.MemberNames(ctx, wager.GuildID, wager.OpponentID)
	if err != nil {
		return fmt.Errorf("failed to resolve opponent: %w", err)
	}

	history, err := m.historian.RecentMessages(ctx, wager.ChannelID, wager.MessageID, m.cfg.HistoryWindow, m.cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to read channel history: %w", err)
	}

	transcript := m.assembler.Assemble(history)
	question := services.ArbitrationQuestion(proposerName, opponentName)

	oracleCtx, cancel := context.WithTimeout(ctx, m.cfg.OracleTimeout)
	defer cancel()

	verdict, err := m.arbiter.Resolve(oracleCtx, transcript, question,
		services.NamedParticipant{UserID: wager.ProposerID, Username: proposerName, Display: proposerDisplay},
		services.NamedParticipant{UserID: wager.OpponentID, Username: opponentName, Display: opponentDisplay},
	)
	if err != nil {
		return err
	}

	outcome := entities.ResolveWinnerToken(verdict.WinnerToken, proposerName, opponentName)
	if !outcome.IsDecisive() {
		return &entities.VerdictParseError{Response: verdict.Text}
	}

	return m.commitResolution(ctx, wager, verdict, outcome)
}

// commitResolution applies the verdict in a single transaction: the
// Accepted -> Resolved compare-and-set, the winner and verdict text, and
// both participants' rating updates. Partial application is never
// observable.
func (m *WagerStateMachine) commitResolution(ctx context.Context, wager *entities.Wager, verdict *entities.Verdict, outcome entities.Outcome) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ok, err := uow.WagerRepository().TransitionStatus(ctx, wager.MessageID, entities.WagerStatusAccepted, entities.WagerStatusResolved)
	if err != nil {
		return fmt.Errorf("failed to transition wager: %w", err)
	}
	if !ok {
		// the recovery sweep got there first
		return entities.ErrStateConflict
	}

	participants := uow.ParticipantRepository()
	proposer, err := participants.GetOrCreate(ctx, wager.GuildID, wager.ProposerID)
	if err != nil {
		return fmt.Errorf("failed to load proposer participant: %w", err)
	}
	opponent, err := participants.GetOrCreate(ctx, wager.GuildID, wager.OpponentID)
	if err != nil {
		return fmt.Errorf("failed to load opponent participant: %w", err)
	}

	update, err := m.ratings.UpdateRatings(proposer, opponent, outcome)
	if err != nil {
		return err
	}

	var winnerID *int64
	switch outcome {
	case entities.OutcomeProposerWins:
		winnerID = &wager.ProposerID
	case entities.OutcomeOpponentWins:
		winnerID = &wager.OpponentID
	}

	if err := uow.WagerRepository().UpdateResolution(ctx, wager.MessageID, winnerID, verdict.Text); err != nil {
		return fmt.Errorf("failed to record resolution: %w", err)
	}
	if err := participants.UpdateRating(ctx, proposer.ID, update.Rating1, proposer.NumResolutions+1); err != nil {
		return fmt.Errorf("failed to update proposer rating: %w", err)
	}
	if err := participants.UpdateRating(ctx, opponent.ID, update.Rating2, opponent.NumResolutions+1); err != nil {
		return fmt.Errorf("failed to update opponent rating: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit resolution: %w", err)
	}

	log.WithFields(log.Fields{
		"message_id": wager.MessageID,
		"outcome":    outcome,
		"delta1":     update.Delta1,
		"delta2":     update.Delta2,
	}).Info("Wager resolved")

	changes := []entities.RatingChange{
		{UserID: wager.ProposerID, Before: proposer.Rating, After: update.Rating1},
		{UserID: wager.OpponentID, Before: opponent.Rating, After: update.Rating2},
	}
	if err := m.notifier.AnnounceVerdict(ctx, wager, verdict.Text, changes); err != nil {
		log.Errorf("Error announcing verdict for wager %d: %v", wager.MessageID, err)
	}
	return nil
}
