package domain

import (
	"context"
	"time"
)

// WeightEntry is the weight logged for one day. Value is kept exactly as it
// was stored; it is usually a decimal number of pounds but imported data may
// hold anything, which readers treat as absent.
type WeightEntry struct {
	UserID    string    `json:"userId"`
	Day       string    `json:"day"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeightRepository is the port for weight persistence.
type WeightRepository interface {
	UpsertWeight(ctx context.Context, userID, day, value string, createdAt time.Time) error
	DeleteLatestWeight(ctx context.Context, userID string) (bool, error)
	WeightForDay(ctx context.Context, userID, day string) (*WeightEntry, error)
	ListRecentWeights(ctx context.Context, userID string, limit int) ([]WeightEntry, error)
}
