package repository

import (
	"context"
	"fmt"
	"time"

	"iqbot/database"
	"iqbot/domain/entities"
	"iqbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const wagerColumns = `
	message_id, guild_id, channel_id, proposer_id, opponent_id,
	status, winner_id, verdict, created_at, resolved_at`

// WagerRepository implements wager data access
type WagerRepository struct {
	q Queryable
}

// NewWagerRepository creates a new wager repository over the connection pool
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

// newWagerRepositoryWithTx creates a new wager repository with a transaction
func newWagerRepositoryWithTx(tx Queryable) interfaces.WagerRepository {
	return &WagerRepository{q: tx}
}

// Create inserts a new wager keyed by its proposal message ID
func (r *WagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	query := `
		INSERT INTO wagers (message_id, guild_id, channel_id, proposer_id, opponent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		wager.MessageID,
		wager.GuildID,
		wager.ChannelID,
		wager.ProposerID,
		wager.OpponentID,
		wager.Status,
	).Scan(&wager.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}

	return nil
}

// GetByMessageID retrieves a wager by its proposal message ID
func (r *WagerRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.Wager, error) {
	query := `SELECT` + wagerColumns + `
		FROM wagers WHERE message_id = $1`

	wager, err := scanWager(r.q.QueryRow(ctx, query, messageID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager by message ID %d: %w", messageID, err)
	}

	return wager, nil
}

// TransitionStatus performs the compare-and-set transition: a single
// conditional UPDATE whose affected-row count detects a lost race.
func (r *WagerRepository) TransitionStatus(ctx context.Context, messageID int64, from, to entities.WagerStatus) (bool, error) {
	query := `UPDATE wagers SET status = $3 WHERE message_id = $1 AND status = $2`

	result, err := r.q.Exec(ctx, query, messageID, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition wager %d from %s to %s: %w", messageID, from, to, err)
	}

	return result.RowsAffected() == 1, nil
}

// UpdateResolution records the winner and verdict text for a closed wager
func (r *WagerRepository) UpdateResolution(ctx context.Context, messageID int64, winnerID *int64, verdict string) error {
	query := `
		UPDATE wagers
		SET winner_id = $2, verdict = $3, resolved_at = NOW()
		WHERE message_id = $1
	`

	result, err := r.q.Exec(ctx, query, messageID, winnerID, verdict)
	if err != nil {
		return fmt.Errorf("failed to update wager resolution %d: %w", messageID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("wager with message ID %d not found", messageID)
	}

	return nil
}

// ListOpenOlderThan returns all Open wagers created before cutoff
func (r *WagerRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*entities.Wager, error) {
	return r.listByStatusOlderThan(ctx, entities.WagerStatusOpen, cutoff)
}

// ListAcceptedOlderThan returns all Accepted wagers created before cutoff
func (r *WagerRepository) ListAcceptedOlderThan(ctx context.Context, cutoff time.Time) ([]*entities.Wager, error) {
	return r.listByStatusOlderThan(ctx, entities.WagerStatusAccepted, cutoff)
}

func (r *WagerRepository) listByStatusOlderThan(ctx context.Context, status entities.WagerStatus, cutoff time.Time) ([]*entities.Wager, error) {
	query := `SELECT` + wagerColumns + `
		FROM wagers
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC`

	rows, err := r.q.Query(ctx, query, status, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s wagers older than %v: %w", status, cutoff, err)
	}
	defer rows.Close()

	var wagers []*entities.Wager
	for rows.Next() {
		wager, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wagers: %w", err)
	}

	return wagers, nil
}

func scanWager(row pgx.Row) (*entities.Wager, error) {
	var wager entities.Wager
	err := row.Scan(
		&wager.MessageID,
		&wager.GuildID,
		&wager.ChannelID,
		&wager.ProposerID,
		&wager.OpponentID,
		&wager.Status,
		&wager.WinnerID,
		&wager.Verdict,
		&wager.CreatedAt,
		&wager.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wager, nil
}
