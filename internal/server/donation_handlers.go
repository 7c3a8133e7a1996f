package server

import (
	"crowdfund/internal/models"
	"crowdfund/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDonation handles POST /api/projects/:id/donations
// @Summary Donate to a project
// @Tags donations
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body object{amount=int} true "Donation amount"
// @Success 201 {object} object{donation=models.Donation,notices=models.Notices}
// @Failure 400 {object} models.ErrorResponse
// @Router /projects/{id}/donations [post]
func (s *Server) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	donation, notices, err := s.donationService.CreateDonation(c.UserContext(), service.CreateDonationInput{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    req.Amount,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"donation": donation,
		"notices":  notices,
	})
}

// GetProjectDonations handles GET /api/projects/:id/donations
func (s *Server) GetProjectDonations(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePage(c, 20)
	donations, err := s.donationService.ListProjectDonations(c.UserContext(), projectID, page.Size, page.Offset())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(donations)
}

// GetMyDonations handles GET /api/users/me/donations
func (s *Server) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	page := parsePage(c, 20)
	donations, err := s.donationService.ListUserDonations(c.UserContext(), userID, page.Size, page.Offset())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(donations)
}
