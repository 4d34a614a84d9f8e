package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitreport/internal/domain"
)

var _ domain.WeightRepository = (*DB)(nil)

// UpsertWeight stores the weight of a day, replacing any earlier value.
func (d *DB) UpsertWeight(ctx context.Context, userID, day, value string, createdAt time.Time) error {
	return d.inTx(ctx, userID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO weights(user_id, day, value, created_at) VALUES($1, $2, $3, $4)
			 ON CONFLICT (user_id, day) DO UPDATE SET value = EXCLUDED.value, created_at = EXCLUDED.created_at;`,
			userID, day, value, createdAt.UTC(),
		)
		return err
	})
}

// DeleteLatestWeight removes the most recently written weight.
func (d *DB) DeleteLatestWeight(ctx context.Context, userID string) (bool, error) {
	deleted := false
	err := d.inTx(ctx, userID, func(tx *sql.Tx) error {
		var day string
		err := tx.QueryRowContext(ctx,
			"SELECT day FROM weights WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE;", userID,
		).Scan(&day)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM weights WHERE user_id = $1 AND day = $2;", userID, day); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// WeightForDay returns the weight stored for day.
func (d *DB) WeightForDay(ctx context.Context, userID, day string) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT user_id, day, value, created_at FROM weights WHERE user_id = $1 AND day = $2;",
		userID, day,
	)

	var e domain.WeightEntry
	if err := row.Scan(&e.UserID, &e.Day, &e.Value, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListRecentWeights returns the most recent weights up to limit, newest day
// first.
func (d *DB) ListRecentWeights(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT user_id, day, value, created_at FROM weights WHERE user_id = $1 ORDER BY day DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WeightEntry, 0, limit)
	for rows.Next() {
		var e domain.WeightEntry
		if err := rows.Scan(&e.UserID, &e.Day, &e.Value, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
