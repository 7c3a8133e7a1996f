package repository

import (
	"context"

	"crowdfund/internal/cache"
	"crowdfund/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository defines the interface for rating data operations
type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	GetByProjectAndUser(ctx context.Context, projectID, userID uint) (*models.Rating, error)
	ListByProject(ctx context.Context, projectID uint) ([]*models.Rating, error)
	Delete(ctx context.Context, projectID, userID uint) error
}

// ratingRepository implements RatingRepository
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts the rating, or overwrites the value when the (project, user)
// pair already rated. ON CONFLICT keeps the operation atomic under races.
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(rating).Error
	if err == nil {
		cache.InvalidateProject(ctx, rating.ProjectID)
	}
	return err
}

func (r *ratingRepository) GetByProjectAndUser(ctx context.Context, projectID, userID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByProject(ctx context.Context, projectID uint) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) Delete(ctx context.Context, projectID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.Rating{}).Error
	if err == nil {
		cache.InvalidateProject(ctx, projectID)
	}
	return err
}
