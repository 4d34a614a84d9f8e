package domain

import (
	"context"
	"time"
)

// Review is a free-text weekly reflection.
type Review struct {
	UserID    string    `json:"userId"`
	Day       string    `json:"day"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewRepository is the port for weekly reviews.
type ReviewRepository interface {
	AddReview(ctx context.Context, r Review) error
	ListReviews(ctx context.Context, userID string) ([]Review, error)
}
