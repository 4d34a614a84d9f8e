package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitreport/internal/domain"
)

var _ domain.SnapshotReader = (*DB)(nil)

// Snapshot reads everything stored for userID in one read-only transaction.
func (d *DB) Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	snap := &domain.Snapshot{
		Weights: make(map[string]string),
		Days:    make(map[string]domain.DailyLog),
		Reviews: make(map[string]string),
	}

	rows, err := tx.QueryContext(ctx, "SELECT day, value FROM weights WHERE user_id = $1;", userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot weights: %w", err)
	}
	for rows.Next() {
		var day, value string
		if err := rows.Scan(&day, &value); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Weights[day] = value
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, "SELECT day, totals, exercises, updated_at FROM nutrition_days WHERE user_id = $1;", userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot days: %w", err)
	}
	for rows.Next() {
		log, err := scanDay(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		snap.Days[log.Day] = log
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, "SELECT day, text FROM reviews WHERE user_id = $1;", userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot reviews: %w", err)
	}
	for rows.Next() {
		var day, text string
		if err := rows.Scan(&day, &text); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Reviews[day] = text
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err = tx.QueryRowContext(ctx, "SELECT data FROM profiles WHERE user_id = $1;", userID).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("snapshot profile: %w", err)
	default:
		var p domain.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		p.UserID = userID
		snap.Profile = &p
	}
	return snap, nil
}

// Import replaces every record of userID with snap in one transaction. Keys
// are stored as given. Imported weights get the Unix epoch as write time so
// they sort before anything written later.
func (d *DB) Import(ctx context.Context, userID string, snap domain.Snapshot) error {
	now := time.Now().UTC()
	return d.inTx(ctx, userID, func(tx *sql.Tx) error {
		for _, table := range []string{"weights", "nutrition_days", "reviews", "profiles"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = $1;", userID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for day, value := range snap.Weights {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO weights(user_id, day, value, created_at) VALUES($1, $2, $3, $4);",
				userID, day, value, time.Unix(0, 0).UTC(),
			); err != nil {
				return fmt.Errorf("import weight %s: %w", day, err)
			}
		}
		for day, log := range snap.Days {
			log.Day = day
			if err := upsertDay(ctx, tx, userID, log); err != nil {
				return fmt.Errorf("import day %s: %w", day, err)
			}
		}
		for day, text := range snap.Reviews {
			if err := addReview(ctx, tx, domain.Review{UserID: userID, Day: day, Text: text, CreatedAt: now}); err != nil {
				return fmt.Errorf("import review %s: %w", day, err)
			}
		}
		if snap.Profile != nil {
			p := *snap.Profile
			p.UserID = userID
			if err := putProfile(ctx, tx, p); err != nil {
				return fmt.Errorf("import profile: %w", err)
			}
		}
		return nil
	})
}
