package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQueryable captures the SQL handed to the driver.
type recordingQueryable struct {
	sql string
}

func (q *recordingQueryable) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	return noRow{}
}

func (q *recordingQueryable) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	return nil, pgx.ErrNoRows
}

func (q *recordingQueryable) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = sql
	return pgconn.CommandTag{}, nil
}

type noRow struct{}

func (noRow) Scan(dest ...any) error { return pgx.ErrNoRows }

// The column list is concatenated with the rest of each statement; a missing
// line break would glue the last column onto the FROM keyword and break every
// lookup at runtime.
func TestWagerRepository_SelectStatementsAreWellFormed(t *testing.T) {
	q := &recordingQueryable{}
	repo := &WagerRepository{q: q}

	_, err := repo.GetByMessageID(context.Background(), 42)
	require.NoError(t, err)
	assert.NotContains(t, q.sql, "resolved_atFROM")
	assert.Regexp(t, `resolved_at\s+FROM wagers`, q.sql)

	_, _ = repo.ListOpenOlderThan(context.Background(), time.Now())
	assert.NotContains(t, q.sql, "resolved_atFROM")
	assert.Regexp(t, `resolved_at\s+FROM wagers`, q.sql)

	_, _ = repo.ListAcceptedOlderThan(context.Background(), time.Now())
	assert.NotContains(t, q.sql, "resolved_atFROM")
	assert.Regexp(t, `resolved_at\s+FROM wagers`, q.sql)
}

func TestParticipantRepository_SelectStatementsAreWellFormed(t *testing.T) {
	q := &recordingQueryable{}
	repo := &ParticipantRepository{q: q}

	_, _ = repo.GetOrCreate(context.Background(), 1, 2)
	assert.NotContains(t, q.sql, "RETURNINGid")
	assert.Regexp(t, `RETURNING\s+id, guild_id`, q.sql)
}
