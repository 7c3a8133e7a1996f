package repository

import (
	"context"

	"crowdfund/internal/cache"
	"crowdfund/internal/models"

	"gorm.io/gorm"
)

// DonationRepository defines the interface for donation data operations
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*models.Donation, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Donation, error)
	SumForProject(ctx context.Context, projectID uint) (int64, error)
}

// donationRepository implements DonationRepository
type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	if err := r.db.WithContext(ctx).Create(donation).Error; err != nil {
		return err
	}
	// Donation totals feed the project aggregates, so the cached project view
	// is stale the moment a donation lands.
	cache.InvalidateProject(ctx, donation.ProjectID)
	return nil
}

func (r *donationRepository) ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*models.Donation, error) {
	var donations []*models.Donation
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("donated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&donations).Error
	return donations, err
}

func (r *donationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Donation, error) {
	var donations []*models.Donation
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("donated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&donations).Error
	return donations, err
}

func (r *donationRepository) SumForProject(ctx context.Context, projectID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
