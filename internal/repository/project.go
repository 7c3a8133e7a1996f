// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"crowdfund/internal/cache"
	"crowdfund/internal/models"

	"gorm.io/gorm"
)

// ProjectFilter narrows project listings. Zero values mean "no constraint".
type ProjectFilter struct {
	Search     string   // matches title, details, or tag name
	Title      string   // matches title only
	CategoryID uint
	Tags       []string // project must carry at least one of these tag names
	MinTarget  int64
	MaxTarget  int64
	Status     string
	OwnerID    uint
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	List(ctx context.Context, filter ProjectFilter, limit, offset int) ([]*models.Project, int64, error)
	Similar(ctx context.Context, projectID uint, limit int) ([]*models.Project, error)
	TopRated(ctx context.Context, limit int) ([]*models.Project, error)
	Latest(ctx context.Context, limit int) ([]*models.Project, error)
	Featured(ctx context.Context, limit int) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	ReplaceTags(ctx context.Context, project *models.Project, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
	AddPicture(ctx context.Context, picture *models.Picture) error
	ListPictures(ctx context.Context, projectID uint) ([]*models.Picture, error)
	DeletePicture(ctx context.Context, projectID, pictureID uint) error
}

// projectRepository implements ProjectRepository
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Create(project).Error
	if err == nil {
		cache.Invalidate(ctx, cache.ProjectsListKey, cache.HomepageKey)
	}
	return err
}

// applyProjectStats adds subqueries computing donation and rating aggregates
// in a single query. AVG is left un-coalesced so a project with no ratings
// reports a null average rather than zero.
func (r *projectRepository) applyProjectStats(db *gorm.DB) *gorm.DB {
	return db.Select("projects.*, " +
		"(SELECT COALESCE(SUM(amount), 0) FROM donations WHERE donations.project_id = projects.id) as total_donations, " +
		"(SELECT COUNT(*) FROM donations WHERE donations.project_id = projects.id) as donations_count, " +
		"(SELECT AVG(value) FROM ratings WHERE ratings.project_id = projects.id) as average_rating, " +
		"(SELECT COUNT(*) FROM ratings WHERE ratings.project_id = projects.id) as rating_count")
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := cache.Aside(ctx, cache.ProjectKey(id), &project, cache.ProjectTTL, func() error {
		return r.applyProjectStats(r.db.WithContext(ctx)).
			Preload("Owner").
			Preload("Category").
			Preload("Tags").
			Preload("Pictures").
			First(&project, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// applyFilter appends WHERE clauses for every set field of the filter.
// Text matches go through LOWER/LIKE rather than ILIKE so the same SQL runs
// on postgres and the sqlite used in tests.
func (r *projectRepository) applyFilter(db *gorm.DB, filter ProjectFilter) *gorm.DB {
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		db = db.Where(
			"LOWER(title) LIKE ? OR LOWER(details) LIKE ? OR projects.id IN "+
				"(SELECT project_tags.project_id FROM project_tags JOIN tags ON tags.id = project_tags.tag_id WHERE LOWER(tags.name) LIKE ?)",
			like, like, like,
		)
	}
	if filter.Title != "" {
		db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.CategoryID != 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if len(filter.Tags) > 0 {
		db = db.Where(
			"projects.id IN (SELECT project_tags.project_id FROM project_tags JOIN tags ON tags.id = project_tags.tag_id WHERE tags.name IN ?)",
			filter.Tags,
		)
	}
	if filter.MinTarget > 0 {
		db = db.Where("total_target >= ?", filter.MinTarget)
	}
	if filter.MaxTarget > 0 {
		db = db.Where("total_target <= ?", filter.MaxTarget)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != 0 {
		db = db.Where("owner_id = ?", filter.OwnerID)
	}
	return db
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter, limit, offset int) ([]*models.Project, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Project{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := r.applyFilter(r.applyProjectStats(r.db.WithContext(ctx)), filter).
		Preload("Owner").
		Preload("Category").
		Preload("Tags").
		Preload("Pictures").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) Similar(ctx context.Context, projectID uint, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := cache.Aside(ctx, cache.SimilarKey(projectID), &projects, cache.ProjectTTL, func() error {
		return r.applyProjectStats(r.db.WithContext(ctx)).
			Preload("Owner").
			Preload("Tags").
			Preload("Pictures").
			Where("projects.id <> ?", projectID).
			Where("status = ?", models.ProjectStatusActive).
			Where(
				"projects.id IN (SELECT pt.project_id FROM project_tags pt WHERE pt.tag_id IN (SELECT tag_id FROM project_tags WHERE project_id = ?))",
				projectID,
			).
			Order("created_at DESC").
			Limit(limit).
			Find(&projects).Error
	})
	return projects, err
}

func (r *projectRepository) TopRated(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.applyProjectStats(r.db.WithContext(ctx)).
		Preload("Owner").
		Preload("Pictures").
		Where("status = ?", models.ProjectStatusActive).
		Where("(SELECT COUNT(*) FROM ratings WHERE ratings.project_id = projects.id) > 0").
		Order("average_rating DESC, rating_count DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Latest(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.applyProjectStats(r.db.WithContext(ctx)).
		Preload("Owner").
		Preload("Pictures").
		Where("status = ?", models.ProjectStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Featured(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.applyProjectStats(r.db.WithContext(ctx)).
		Preload("Owner").
		Preload("Pictures").
		Where("status = ?", models.ProjectStatusActive).
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Omit("Tags").Save(project).Error; err != nil {
		return err
	}
	cache.InvalidateProject(ctx, project.ID)
	cache.Invalidate(ctx, cache.SimilarKey(project.ID))
	return nil
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return err
	}
	cache.InvalidateProject(ctx, id)
	return nil
}

func (r *projectRepository) ReplaceTags(ctx context.Context, project *models.Project, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Model(project).Association("Tags").Replace(tags)
	if err == nil {
		cache.InvalidateProject(ctx, project.ID)
		cache.Invalidate(ctx, cache.SimilarKey(project.ID))
	}
	return err
}

func (r *projectRepository) AddPicture(ctx context.Context, picture *models.Picture) error {
	err := r.db.WithContext(ctx).Create(picture).Error
	if err == nil {
		cache.Invalidate(ctx, cache.ProjectKey(picture.ProjectID))
	}
	return err
}

func (r *projectRepository) ListPictures(ctx context.Context, projectID uint) ([]*models.Picture, error) {
	var pictures []*models.Picture
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&pictures).Error
	return pictures, err
}

func (r *projectRepository) DeletePicture(ctx context.Context, projectID, pictureID uint) error {
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.Picture{}, pictureID).Error
	if err == nil {
		cache.Invalidate(ctx, cache.ProjectKey(projectID))
	}
	return err
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateProject(ctx, id)
	cache.Invalidate(ctx, cache.SimilarKey(id), cache.CommentsKey(id))
	return nil
}
