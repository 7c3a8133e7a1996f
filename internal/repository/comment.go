package repository

import (
	"context"

	"crowdfund/internal/cache"
	"crowdfund/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByProject(ctx context.Context, projectID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.InvalidateComments(ctx, comment.ProjectID)
		cache.InvalidateProject(ctx, comment.ProjectID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByProject returns the active comments for a project in insertion order.
// Threading into parent/reply trees happens above this layer.
func (r *commentRepository) ListByProject(ctx context.Context, projectID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := cache.Aside(ctx, cache.CommentsKey(projectID), &comments, cache.CommentsTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("User").
			Where("project_id = ? AND is_active = ?", projectID, true).
			Order("id ASC").
			Find(&comments).Error
	})
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	cache.InvalidateComments(ctx, comment.ProjectID)
	return nil
}

func (r *commentRepository) SetActive(ctx context.Context, id uint, active bool) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).
		Model(&comment).
		Update("is_active", active).Error
	if err == nil {
		cache.InvalidateComments(ctx, comment.ProjectID)
	}
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return err
	}
	cache.InvalidateComments(ctx, comment.ProjectID)
	return nil
}
