package rounds

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres. The partial unique index on open
// rounds is what serializes concurrent start-round requests per user.
type PGRepo struct {
	DB *sql.DB
}

const roundColumns = `
id, user_id, round_number, status, started_at, letters_generated_at,
mailed_at, locked_until, completed_at, unlocked_early,
items_disputed, items_deleted, items_verified, items_updated, items_no_response,
created_at`

func (r *PGRepo) Create(ctx context.Context, round Round) error {
	const query = `
INSERT INTO dispute_rounds (id, user_id, round_number, status, started_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		round.ID, round.UserID, round.RoundNumber, round.Status, round.StartedAt, round.CreatedAt)
	if isUniqueViolation(err) {
		return ErrOpenRoundExists
	}
	return err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Round, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+roundColumns+`
FROM dispute_rounds
WHERE user_id = $1
ORDER BY round_number DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, round)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, userID, roundID string) (Round, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+roundColumns+`
FROM dispute_rounds
WHERE user_id = $1 AND id = $2`, userID, roundID)
	if err != nil {
		return Round{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Round{}, err
		}
		return Round{}, ErrNotFound
	}
	return scanRound(rows)
}

func (r *PGRepo) SetLettersGenerated(ctx context.Context, userID, roundID string, itemsDisputed int, at time.Time) error {
	return r.transition(ctx, userID, roundID, `
UPDATE dispute_rounds
SET status = '`+StatusLettersGenerated+`', letters_generated_at = $1, items_disputed = $2
WHERE user_id = $3 AND id = $4 AND status = '`+StatusActive+`'`,
		at, itemsDisputed, userID, roundID)
}

func (r *PGRepo) SetMailed(ctx context.Context, userID, roundID string, mailedAt, lockedUntil time.Time) error {
	return r.transition(ctx, userID, roundID, `
UPDATE dispute_rounds
SET status = '`+StatusMailed+`', mailed_at = $1, locked_until = $2
WHERE user_id = $3 AND id = $4 AND status = '`+StatusLettersGenerated+`'`,
		mailedAt, lockedUntil, userID, roundID)
}

func (r *PGRepo) SetUnlockedEarly(ctx context.Context, userID, roundID string) error {
	return r.transition(ctx, userID, roundID, `
UPDATE dispute_rounds
SET status = '`+StatusResponsesUploaded+`', unlocked_early = TRUE
WHERE user_id = $1 AND id = $2 AND status = '`+StatusMailed+`'`,
		userID, roundID)
}

func (r *PGRepo) Complete(ctx context.Context, userID, roundID string, results Results, at time.Time) error {
	return r.transition(ctx, userID, roundID, `
UPDATE dispute_rounds
SET status = '`+StatusComplete+`', completed_at = $1,
    items_deleted = $2, items_verified = $3, items_updated = $4, items_no_response = $5
WHERE user_id = $6 AND id = $7 AND status IN ('`+StatusMailed+`', '`+StatusResponsesUploaded+`')`,
		at, results.ItemsDeleted, results.ItemsVerified, results.ItemsUpdated, results.ItemsNoResponse,
		userID, roundID)
}

// transition runs a status-guarded update. Zero rows means either the round
// does not exist or it is not in the status the transition requires.
func (r *PGRepo) transition(ctx context.Context, userID, roundID, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists bool
	err = r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM dispute_rounds WHERE user_id = $1 AND id = $2)`,
		userID, roundID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrInvalidTransition
	}
	return ErrNotFound
}

func scanRound(rows *sql.Rows) (Round, error) {
	var r Round
	var lettersAt, mailedAt, lockedUntil, completedAt sql.NullTime
	if err := rows.Scan(
		&r.ID,
		&r.UserID,
		&r.RoundNumber,
		&r.Status,
		&r.StartedAt,
		&lettersAt,
		&mailedAt,
		&lockedUntil,
		&completedAt,
		&r.UnlockedEarly,
		&r.ItemsDisputed,
		&r.ItemsDeleted,
		&r.ItemsVerified,
		&r.ItemsUpdated,
		&r.ItemsNoResponse,
		&r.CreatedAt,
	); err != nil {
		return Round{}, err
	}
	if lettersAt.Valid {
		r.LettersGeneratedAt = &lettersAt.Time
	}
	if mailedAt.Valid {
		r.MailedAt = &mailedAt.Time
	}
	if lockedUntil.Valid {
		r.LockedUntil = &lockedUntil.Time
	}
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Time
	}
	return r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repo = (*PGRepo)(nil)
