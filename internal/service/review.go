package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
)

type ReviewWriter interface {
	CreateReview(ctx context.Context, r domain.Review) (int64, error)
}

// ReviewService is the explicit write path for product reviews.
type ReviewService struct {
	store         ReviewWriter
	defaultUserID int
}

func NewReviewService(store ReviewWriter, defaultUserID int) *ReviewService {
	return &ReviewService{store: store, defaultUserID: defaultUserID}
}

// Create stores a review. Submissions are not deduplicated.
func (s *ReviewService) Create(ctx context.Context, r domain.Review) (int64, error) {
	if r.ProductID <= 0 {
		return 0, domain.ErrInvalidProduct
	}
	if r.Rating < 1 || r.Rating > 5 {
		return 0, domain.ErrInvalidRating
	}
	if r.UserID <= 0 {
		r.UserID = s.defaultUserID
	}
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		r.Content = config.ChatbotReviewContent
	}

	id, err := s.store.CreateReview(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("create review: %w", err)
	}
	return id, nil
}
