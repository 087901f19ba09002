package repository

import (
	"context"
	"fmt"

	"iqbot/database"
	"iqbot/domain/entities"
	"iqbot/domain/interfaces"
)

const participantColumns = `
	id, guild_id, user_id, rating, num_resolutions, present, created_at, updated_at`

// ParticipantRepository implements participant data access
type ParticipantRepository struct {
	q Queryable
}

// NewParticipantRepository creates a new participant repository over the pool
func NewParticipantRepository(db *database.DB) *ParticipantRepository {
	return &ParticipantRepository{q: db.Pool}
}

// newParticipantRepositoryWithTx creates a new participant repository with a transaction
func newParticipantRepositoryWithTx(tx Queryable) interfaces.ParticipantRepository {
	return &ParticipantRepository{q: tx}
}

// GetOrCreate returns the participant for (guildID, userID), creating the
// row at the baseline rating on first reference. The no-op conflict update
// makes the RETURNING clause yield the existing row.
func (r *ParticipantRepository) GetOrCreate(ctx context.Context, guildID, userID int64) (*entities.Participant, error) {
	query := `
		INSERT INTO participants (guild_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING` + participantColumns

	var p entities.Participant
	err := r.q.QueryRow(ctx, query, guildID, userID, entities.BaselineRating).Scan(
		&p.ID,
		&p.GuildID,
		&p.UserID,
		&p.Rating,
		&p.NumResolutions,
		&p.Present,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create participant %d/%d: %w", guildID, userID, err)
	}

	return &p, nil
}

// UpdateRating writes a participant's new rating and resolution count
func (r *ParticipantRepository) UpdateRating(ctx context.Context, id int64, rating, numResolutions int) error {
	query := `
		UPDATE participants
		SET rating = $2, num_resolutions = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id, rating, numResolutions)
	if err != nil {
		return fmt.Errorf("failed to update rating for participant %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("participant with ID %d not found", id)
	}

	return nil
}

// SetRating overrides a participant's rating, creating the row if needed
func (r *ParticipantRepository) SetRating(ctx context.Context, guildID, userID int64, rating int) error {
	query := `
		INSERT INTO participants (guild_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID, rating); err != nil {
		return fmt.Errorf("failed to set rating for participant %d/%d: %w", guildID, userID, err)
	}

	return nil
}

// SetPresent updates the membership flag for a user across all guilds
func (r *ParticipantRepository) SetPresent(ctx context.Context, userID int64, present bool) error {
	query := `UPDATE participants SET present = $2, updated_at = NOW() WHERE user_id = $1`

	if _, err := r.q.Exec(ctx, query, userID, present); err != nil {
		return fmt.Errorf("failed to set presence for user %d: %w", userID, err)
	}

	return nil
}
