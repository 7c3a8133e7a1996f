package service

import (
	"context"
	"errors"
	"strconv"

	"crowdfund/internal/middleware"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"gorm.io/gorm"
)

type RatingService struct {
	ratingRepo  repository.RatingRepository
	projectRepo repository.ProjectRepository
}

type RateProjectInput struct {
	UserID    uint
	ProjectID uint
	Value     int
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	projectRepo repository.ProjectRepository,
) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, projectRepo: projectRepo}
}

// RateProject stores a 1-5 score. Rating a project the user already rated
// overwrites the previous score instead of adding a second row.
func (s *RatingService) RateProject(ctx context.Context, in RateProjectInput) (*models.Rating, error) {
	if in.Value < 1 || in.Value > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}
	if _, err := s.projectRepo.GetByID(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		ProjectID: in.ProjectID,
		UserID:    in.UserID,
		Value:     in.Value,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	middleware.RatingsTotal.WithLabelValues(strconv.Itoa(in.Value)).Inc()

	return s.ratingRepo.GetByProjectAndUser(ctx, in.ProjectID, in.UserID)
}

// GetUserRating returns the caller's rating for a project, or nil when the
// user has not rated it.
func (s *RatingService) GetUserRating(ctx context.Context, projectID, userID uint) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) RemoveRating(ctx context.Context, projectID, userID uint) error {
	return s.ratingRepo.Delete(ctx, projectID, userID)
}
