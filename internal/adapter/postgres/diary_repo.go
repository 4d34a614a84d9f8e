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

var (
	_ domain.NutritionRepository = (*DB)(nil)
	_ domain.ProfileRepository   = (*DB)(nil)
	_ domain.ReviewRepository    = (*DB)(nil)
)

// jsonOrNull encodes v for a JSONB column, keeping nil as SQL NULL.
func jsonOrNull(v any, isNil bool) (any, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func upsertDay(ctx context.Context, tx *sql.Tx, userID string, log domain.DailyLog) error {
	totals, err := jsonOrNull(log.Totals, log.Totals == nil)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	exercises, err := jsonOrNull(log.Exercises, log.Exercises == nil)
	if err != nil {
		return fmt.Errorf("encode exercises: %w", err)
	}
	if log.UpdatedAt.IsZero() {
		log.UpdatedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO nutrition_days(user_id, day, totals, exercises, updated_at) VALUES($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, day) DO UPDATE SET totals = EXCLUDED.totals, exercises = EXCLUDED.exercises, updated_at = EXCLUDED.updated_at;`,
		userID, log.Day, totals, exercises, log.UpdatedAt.UTC(),
	)
	return err
}

// UpsertDay replaces the diary of log.Day.
func (d *DB) UpsertDay(ctx context.Context, userID string, log domain.DailyLog) error {
	return d.inTx(ctx, userID, func(tx *sql.Tx) error {
		return upsertDay(ctx, tx, userID, log)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(row rowScanner) (domain.DailyLog, error) {
	var log domain.DailyLog
	var totals, exercises []byte
	if err := row.Scan(&log.Day, &totals, &exercises, &log.UpdatedAt); err != nil {
		return log, err
	}
	if totals != nil {
		if err := json.Unmarshal(totals, &log.Totals); err != nil {
			return log, fmt.Errorf("decode totals of %s: %w", log.Day, err)
		}
	}
	if exercises != nil {
		if err := json.Unmarshal(exercises, &log.Exercises); err != nil {
			return log, fmt.Errorf("decode exercises of %s: %w", log.Day, err)
		}
	}
	return log, nil
}

// ListRecentDays lists diary days newest first.
func (d *DB) ListRecentDays(ctx context.Context, userID string, limit int) ([]domain.DailyLog, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT day, totals, exercises, updated_at FROM nutrition_days WHERE user_id = $1 ORDER BY day DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DailyLog, 0, limit)
	for rows.Next() {
		log, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

// GetProfile returns the profile of userID.
func (d *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var data []byte
	err := d.sql.QueryRowContext(ctx, "SELECT data FROM profiles WHERE user_id = $1;", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	p.UserID = userID
	return &p, nil
}

func putProfile(ctx context.Context, tx *sql.Tx, p domain.Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles(user_id, data, updated_at) VALUES($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;`,
		p.UserID, string(data), p.UpdatedAt.UTC(),
	)
	return err
}

// PutProfile replaces the profile of p.UserID.
func (d *DB) PutProfile(ctx context.Context, p domain.Profile) error {
	return d.inTx(ctx, p.UserID, func(tx *sql.Tx) error {
		return putProfile(ctx, tx, p)
	})
}

func addReview(ctx context.Context, tx *sql.Tx, r domain.Review) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reviews(user_id, day, text, created_at) VALUES($1, $2, $3, $4)
		 ON CONFLICT (user_id, day) DO UPDATE SET text = EXCLUDED.text, created_at = EXCLUDED.created_at;`,
		r.UserID, r.Day, r.Text, r.CreatedAt.UTC(),
	)
	return err
}

// AddReview stores a review; a second review on the same day replaces the
// first.
func (d *DB) AddReview(ctx context.Context, r domain.Review) error {
	return d.inTx(ctx, r.UserID, func(tx *sql.Tx) error {
		return addReview(ctx, tx, r)
	})
}

// ListReviews lists the reviews of userID.
func (d *DB) ListReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT user_id, day, text, created_at FROM reviews WHERE user_id = $1;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.UserID, &r.Day, &r.Text, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
