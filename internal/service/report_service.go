package service

import (
	"context"

	"crowdfund/internal/models"
	"crowdfund/internal/repository"
)

type ReportService struct {
	reportRepo  repository.ReportRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateReportInput struct {
	ReporterID  uint
	SubjectType string
	SubjectID   uint
	Reason      string
}

type ResolveReportInput struct {
	AdminID    uint
	ReportID   uint
	AdminNotes string
}

const maxReasonLen = 1000

func NewReportService(
	reportRepo repository.ReportRepository,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		isAdmin:     isAdmin,
	}
}

// CreateReport files a report against a project or comment. A user cannot
// hold two pending reports against the same subject.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if in.Reason == "" {
		return nil, models.NewValidationError("Reason is required")
	}
	if len(in.Reason) > maxReasonLen {
		return nil, models.NewValidationError("Reason too long (max 1000 characters)")
	}

	switch in.SubjectType {
	case models.ReportSubjectProject:
		if _, err := s.projectRepo.GetByID(ctx, in.SubjectID); err != nil {
			return nil, err
		}
	case models.ReportSubjectComment:
		if _, err := s.commentRepo.GetByID(ctx, in.SubjectID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("Subject type must be project or comment")
	}

	pending, err := s.reportRepo.HasPending(ctx, in.ReporterID, in.SubjectType, in.SubjectID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, models.NewValidationError("You already reported this")
	}

	report := &models.Report{
		ReporterID:  in.ReporterID,
		SubjectType: in.SubjectType,
		SubjectID:   in.SubjectID,
		Reason:      in.Reason,
		Status:      models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, report.ID)
}

// ListReports returns reports for admin review, optionally filtered by status.
func (s *ReportService) ListReports(ctx context.Context, adminID uint, status string, limit, offset int) ([]*models.Report, int64, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	if status != "" &&
		status != models.ReportStatusPending &&
		status != models.ReportStatusResolved &&
		status != models.ReportStatusRejected {
		return nil, 0, models.NewValidationError("Unknown report status")
	}
	return s.reportRepo.List(ctx, status, limit, offset)
}

// ResolveReport marks a pending report resolved. Acting on the reported
// subject (deactivating a comment, deleting a project) is a separate admin
// call so the audit trail stays explicit.
func (s *ReportService) ResolveReport(ctx context.Context, in ResolveReportInput) (*models.Report, error) {
	return s.closeReport(ctx, in, models.ReportStatusResolved)
}

// RejectReport marks a pending report rejected.
func (s *ReportService) RejectReport(ctx context.Context, in ResolveReportInput) (*models.Report, error) {
	return s.closeReport(ctx, in, models.ReportStatusRejected)
}

func (s *ReportService) closeReport(ctx context.Context, in ResolveReportInput, status string) (*models.Report, error) {
	if err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, in.ReportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, models.NewValidationError("Report is already closed")
	}

	report.Status = status
	report.AdminNotes = in.AdminNotes
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) requireAdmin(ctx context.Context, userID uint) error {
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
