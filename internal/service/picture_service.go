package service

import (
	"context"
	"net/url"

	"crowdfund/internal/models"
	"crowdfund/internal/repository"
)

type PictureService struct {
	projectRepo repository.ProjectRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type AddPictureInput struct {
	UserID    uint
	ProjectID uint
	ImageURL  string
}

type DeletePictureInput struct {
	UserID    uint
	ProjectID uint
	PictureID uint
}

func NewPictureService(
	projectRepo repository.ProjectRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PictureService {
	return &PictureService{projectRepo: projectRepo, isAdmin: isAdmin}
}

// AddPicture attaches an image URL to a project gallery. Owner only.
func (s *PictureService) AddPicture(ctx context.Context, in AddPictureInput) (*models.Picture, error) {
	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(ctx, project, in.UserID); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(in.ImageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, models.NewValidationError("Image URL must be a valid http(s) URL")
	}

	picture := &models.Picture{
		ProjectID: in.ProjectID,
		ImageURL:  in.ImageURL,
	}
	if err := s.projectRepo.AddPicture(ctx, picture); err != nil {
		return nil, err
	}
	return picture, nil
}

// ListPictures returns a project's gallery. A project with no uploads gets a
// single placeholder entry so clients always have something to render.
func (s *PictureService) ListPictures(ctx context.Context, projectID uint) ([]*models.Picture, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	pictures, err := s.projectRepo.ListPictures(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(pictures) == 0 {
		pictures = []*models.Picture{{
			ProjectID: projectID,
			ImageURL:  models.PlaceholderPictureURL,
		}}
	}
	return pictures, nil
}

func (s *PictureService) DeletePicture(ctx context.Context, in DeletePictureInput) error {
	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, project, in.UserID); err != nil {
		return err
	}
	return s.projectRepo.DeletePicture(ctx, in.ProjectID, in.PictureID)
}

func (s *PictureService) authorizeOwner(ctx context.Context, project *models.Project, userID uint) error {
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
	return models.NewUnauthorizedError("You can only manage pictures on your own projects")
}
