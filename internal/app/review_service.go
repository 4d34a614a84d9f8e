package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fitreport/internal/domain"
)

// ReviewService stores the free-text weekly reviews. A review is attached
// to a report week when the report is built, not when it is written.
type ReviewService struct {
	repo  domain.ReviewRepository
	clock Clock
}

func NewReviewService(repo domain.ReviewRepository, clock Clock) *ReviewService {
	return &ReviewService{repo: repo, clock: clock}
}

// Submit stores text as today's review, replacing an earlier one from today.
func (s *ReviewService) Submit(ctx context.Context, userID, text string) (*domain.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: review text is empty", ErrInvalidInput)
	}
	r := domain.Review{
		UserID:    userID,
		Day:       s.clock.Today(),
		Text:      text,
		CreatedAt: s.clock.now(),
	}
	if err := s.repo.AddReview(ctx, r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns every review of the user, newest first.
func (s *ReviewService) List(ctx context.Context, userID string) ([]domain.Review, error) {
	reviews, err := s.repo.ListReviews(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Day > reviews[j].Day })
	return reviews, nil
}
