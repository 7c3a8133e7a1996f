// Package service contains the business rules sitting between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"time"

	"crowdfund/internal/funding"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/validation"
)

type ProjectService struct {
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreateProjectInput struct {
	OwnerID     uint
	Title       string
	Details     string
	TotalTarget int64
	CategoryID  *uint
	Tags        []string
	StartTime   time.Time
	EndTime     time.Time
}

type UpdateProjectInput struct {
	UserID      uint
	ProjectID   uint
	Title       string
	Details     string
	TotalTarget int64
	CategoryID  *uint
	Tags        []string
	EndTime     *time.Time
}

type CancelProjectInput struct {
	UserID    uint
	ProjectID uint
}

type DeleteProjectInput struct {
	UserID    uint
	ProjectID uint
}

// HomepageView bundles the three project shelves the landing page shows.
type HomepageView struct {
	TopRated []*models.Project `json:"top_rated"`
	Latest   []*models.Project `json:"latest"`
	Featured []*models.Project `json:"featured"`
}

const (
	maxTitleLen   = 200
	maxDetailsLen = 20000
	homepageShelf = 5
	similarLimit  = 4
)

func NewProjectService(
	projectRepo repository.ProjectRepository,
	categoryRepo repository.CategoryRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		isAdmin:      isAdmin,
	}
}

// finalize fills the derived fields a loaded project row does not carry.
func finalize(p *models.Project) *models.Project {
	if p == nil {
		return nil
	}
	p.PercentFunded = int(funding.PercentFunded(p.TotalDonations, p.TotalTarget))
	return p
}

func finalizeAll(projects []*models.Project) []*models.Project {
	for _, p := range projects {
		finalize(p)
	}
	return projects
}

func (s *ProjectService) validateProjectFields(title, details string, totalTarget int64, tags []string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if details == "" {
		return models.NewValidationError("Details are required")
	}
	if len(details) > maxDetailsLen {
		return models.NewValidationError("Details too long (max 20000 characters)")
	}
	if totalTarget <= 0 {
		return models.NewValidationError("Total target must be positive")
	}
	for _, tag := range tags {
		if err := validation.ValidateTagName(validation.NormalizeTagName(tag)); err != nil {
			return models.NewValidationError("Invalid tag: " + err.Error())
		}
	}
	return nil
}

func (s *ProjectService) resolveCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.GetCategory(ctx, *categoryID); err != nil {
		return models.NewValidationError("Category does not exist")
	}
	return nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if err := s.validateProjectFields(in.Title, in.Details, in.TotalTarget, in.Tags); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	start := in.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	if in.EndTime.IsZero() {
		return nil, models.NewValidationError("End time is required")
	}
	if !in.EndTime.After(start) {
		return nil, models.NewValidationError("End time must be after start time")
	}

	project := &models.Project{
		Title:       in.Title,
		Details:     in.Details,
		TotalTarget: in.TotalTarget,
		OwnerID:     in.OwnerID,
		CategoryID:  in.CategoryID,
		StartTime:   start,
		EndTime:     in.EndTime,
		Status:      models.ProjectStatusActive,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	if len(in.Tags) > 0 {
		tags, err := s.categoryRepo.GetOrCreateTags(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.projectRepo.ReplaceTags(ctx, project, tags); err != nil {
			return nil, err
		}
	}

	return s.GetProject(ctx, project.ID)
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return finalize(project), nil
}

func (s *ProjectService) ListProjects(ctx context.Context, filter repository.ProjectFilter, limit, offset int) ([]*models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return finalizeAll(projects), total, nil
}

// SimilarProjects returns up to four active projects sharing at least one tag
// with the given one.
func (s *ProjectService) SimilarProjects(ctx context.Context, projectID uint) ([]*models.Project, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.Similar(ctx, projectID, similarLimit)
	if err != nil {
		return nil, err
	}
	return finalizeAll(projects), nil
}

// Homepage returns the top five rated, latest five, and five featured active
// projects. A project with no ratings never makes the top-rated shelf.
func (s *ProjectService) Homepage(ctx context.Context) (*HomepageView, error) {
	topRated, err := s.projectRepo.TopRated(ctx, homepageShelf)
	if err != nil {
		return nil, err
	}
	latest, err := s.projectRepo.Latest(ctx, homepageShelf)
	if err != nil {
		return nil, err
	}
	featured, err := s.projectRepo.Featured(ctx, homepageShelf)
	if err != nil {
		return nil, err
	}
	return &HomepageView{
		TopRated: finalizeAll(topRated),
		Latest:   finalizeAll(latest),
		Featured: finalizeAll(featured),
	}, nil
}

func (s *ProjectService) authorizeOwner(ctx context.Context, project *models.Project, userID uint, action string) error {
	if project.OwnerID == userID {
		return nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewUnauthorizedError("You can only " + action + " your own projects")
}

func (s *ProjectService) UpdateProject(ctx context.Context, in UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(ctx, project, in.UserID, "update"); err != nil {
		return nil, err
	}

	if in.Title != "" {
		project.Title = in.Title
	}
	if in.Details != "" {
		project.Details = in.Details
	}
	if in.TotalTarget > 0 {
		project.TotalTarget = in.TotalTarget
	}
	if in.CategoryID != nil {
		if err := s.resolveCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		project.CategoryID = in.CategoryID
	}
	if in.EndTime != nil {
		if !in.EndTime.After(project.StartTime) {
			return nil, models.NewValidationError("End time must be after start time")
		}
		project.EndTime = *in.EndTime
	}
	if err := s.validateProjectFields(project.Title, project.Details, project.TotalTarget, in.Tags); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	if in.Tags != nil {
		tags, err := s.categoryRepo.GetOrCreateTags(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.projectRepo.ReplaceTags(ctx, project, tags); err != nil {
			return nil, err
		}
	}

	return s.GetProject(ctx, project.ID)
}

// CancelProject marks a project canceled. Only the owner may cancel, and only
// while collected donations sit strictly below 25% of the target.
func (s *ProjectService) CancelProject(ctx context.Context, in CancelProjectInput) (*models.Project, models.Notices, error) {
	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if project.OwnerID != in.UserID {
		return nil, nil, models.NewUnauthorizedError("You can only cancel your own projects")
	}
	if project.Status != models.ProjectStatusActive {
		return nil, nil, models.NewValidationError("Only active projects can be canceled")
	}
	if !funding.CanBeCanceled(project.TotalDonations, project.TotalTarget) {
		return nil, nil, models.NewValidationError("Project cannot be canceled once 25% funded")
	}

	if err := s.projectRepo.UpdateStatus(ctx, in.ProjectID, models.ProjectStatusCanceled); err != nil {
		return nil, nil, err
	}

	project, err = s.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	notices := models.Notices{}.Success("Project canceled")
	return project, notices, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, in DeleteProjectInput) error {
	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, project, in.UserID, "delete"); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, in.ProjectID)
}

func (s *ProjectService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *ProjectService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.categoryRepo.ListTags(ctx)
}
