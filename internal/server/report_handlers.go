package server

import (
	"context"

	"crowdfund/internal/models"
	"crowdfund/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		SubjectType string `json:"subject_type"`
		SubjectID   uint   `json:"subject_id"`
		Reason      string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.CreateReport(c.UserContext(), service.CreateReportInput{
		ReporterID:  userID,
		SubjectType: req.SubjectType,
		SubjectID:   req.SubjectID,
		Reason:      req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/admin/reports?status=pending
func (s *Server) GetReports(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePage(c, 20)

	reports, total, err := s.reportService.ListReports(c.UserContext(), userID,
		c.Query("status"), page.Size, page.Offset())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(pageEnvelope(reports, page, total))
}

// ResolveReport handles POST /api/admin/reports/:id/resolve
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	return s.closeReport(c, s.reportService.ResolveReport)
}

// RejectReport handles POST /api/admin/reports/:id/reject
func (s *Server) RejectReport(c *fiber.Ctx) error {
	return s.closeReport(c, s.reportService.RejectReport)
}

func (s *Server) closeReport(
	c *fiber.Ctx,
	closeFn func(context.Context, service.ResolveReportInput) (*models.Report, error),
) error {
	userID := c.Locals("userID").(uint)
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := closeFn(c.UserContext(), service.ResolveReportInput{
		AdminID:    userID,
		ReportID:   reportID,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}
