package repository

import (
	"context"

	"crowdfund/internal/models"
	"crowdfund/internal/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines the interface for category and tag data operations
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	ListTags(ctx context.Context) ([]*models.Tag, error)
	GetOrCreateTags(ctx context.Context, names []string) ([]models.Tag, error)
}

// categoryRepository implements CategoryRepository
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetOrCreateTags normalizes the given names, inserts the missing ones and
// returns the full tag rows. Duplicate names collapse to one tag.
func (r *categoryRepository) GetOrCreateTags(ctx context.Context, names []string) ([]models.Tag, error) {
	normalized := make([]string, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		n := validation.NormalizeTagName(name)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	rows := make([]models.Tag, len(normalized))
	for i, n := range normalized {
		rows[i] = models.Tag{Name: n}
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&rows).Error; err != nil {
		return nil, err
	}

	// Re-read so tags that already existed come back with their real IDs.
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", normalized).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
