package service

import (
	"context"
	"strings"

	"crowdfund/internal/models"
	"crowdfund/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	projectRepo repository.ProjectRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID    uint
	ProjectID uint
	Content   string
	ParentID  *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

const maxCommentLen = 500

func NewCommentService(
	commentRepo repository.CommentRepository,
	projectRepo repository.ProjectRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		projectRepo: projectRepo,
		isAdmin:     isAdmin,
	}
}

// CreateComment posts a comment or a reply. Replies nest a single level: a
// reply's parent must be a top-level, active comment on the same project.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.projectRepo.GetByID(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, models.NewValidationError("Parent comment does not exist")
		}
		if parent.ProjectID != in.ProjectID {
			return nil, models.NewValidationError("Parent comment belongs to another project")
		}
		if !parent.IsActive {
			return nil, models.NewValidationError("Cannot reply to a removed comment")
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("Replies cannot be nested further")
		}
	}

	comment := &models.Comment{
		ProjectID: in.ProjectID,
		UserID:    in.UserID,
		Content:   in.Content,
		ParentID:  in.ParentID,
		IsActive:  true,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the active comments of a project threaded into
// top-level comments with their replies.
func (s *CommentService) ListComments(ctx context.Context, projectID uint) ([]*models.Comment, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return models.ThreadComments(comments), nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeactivateComment hides a comment from public listings without deleting the
// row. Admin only.
func (s *CommentService) DeactivateComment(ctx context.Context, adminID, commentID uint) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return s.commentRepo.SetActive(ctx, commentID, false)
}

// ReactivateComment restores a previously hidden comment. Admin only.
func (s *CommentService) ReactivateComment(ctx context.Context, adminID, commentID uint) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return s.commentRepo.SetActive(ctx, commentID, true)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		if err := s.requireAdmin(ctx, in.UserID); err != nil {
			return nil, models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return nil
}
