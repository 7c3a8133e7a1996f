package server

import (
	"crowdfund/internal/gallery"
	"crowdfund/internal/models"
	"crowdfund/internal/service"

	"github.com/gofiber/fiber/v2"
)

// pictureSlide is one carousel entry: the picture plus the indexes a client
// jumps to on next/prev, wrapping at the ends.
type pictureSlide struct {
	Index     int             `json:"index"`
	PrevIndex int             `json:"prev_index"`
	NextIndex int             `json:"next_index"`
	Picture   *models.Picture `json:"picture"`
}

// GetProjectPictures handles GET /api/projects/:id/pictures
// The response carries carousel metadata so slide 0's prev wraps to the last
// slide and the last slide's next wraps back to 0.
func (s *Server) GetProjectPictures(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	pictures, err := s.pictureService.ListPictures(c.UserContext(), projectID)
	if err != nil {
		return respondServiceError(c, err)
	}

	n := len(pictures)
	slides := make([]pictureSlide, n)
	for i, picture := range pictures {
		slides[i] = pictureSlide{
			Index:     i,
			PrevIndex: gallery.PrevIndex(i, n),
			NextIndex: gallery.NextIndex(i, n),
			Picture:   picture,
		}
	}

	return c.JSON(fiber.Map{
		"count":  n,
		"slides": slides,
	})
}

// AddProjectPicture handles POST /api/projects/:id/pictures
func (s *Server) AddProjectPicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	picture, err := s.pictureService.AddPicture(c.UserContext(), service.AddPictureInput{
		UserID:    userID,
		ProjectID: projectID,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(picture)
}

// DeleteProjectPicture handles DELETE /api/projects/:id/pictures/:pictureId
func (s *Server) DeleteProjectPicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pictureID, err := s.parseID(c, "pictureId")
	if err != nil {
		return nil
	}

	if err := s.pictureService.DeletePicture(c.UserContext(), service.DeletePictureInput{
		UserID:    userID,
		ProjectID: projectID,
		PictureID: pictureID,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
