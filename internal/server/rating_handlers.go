package server

import (
	"crowdfund/internal/models"
	"crowdfund/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RateProject handles PUT /api/projects/:id/rating
// Rating again overwrites the caller's previous score.
func (s *Server) RateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Value int `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rating, err := s.ratingService.RateProject(c.UserContext(), service.RateProjectInput{
		UserID:    userID,
		ProjectID: projectID,
		Value:     req.Value,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(rating)
}

// GetMyRating handles GET /api/projects/:id/rating
func (s *Server) GetMyRating(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rating, err := s.ratingService.GetUserRating(c.UserContext(), projectID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if rating == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Rating for project", projectID))
	}
	return c.JSON(rating)
}

// DeleteMyRating handles DELETE /api/projects/:id/rating
func (s *Server) DeleteMyRating(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ratingService.RemoveRating(c.UserContext(), projectID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
