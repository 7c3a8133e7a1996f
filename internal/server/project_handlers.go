package server

import (
	"strings"
	"time"

	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProjects handles GET /api/projects
// Filters: search, title, category, tag (repeatable), min_target, max_target,
// status. Without an explicit status the listing shows active projects only.
// @Summary List projects
// @Description Browse active projects with filters and pagination
// @Tags projects
// @Produce json
// @Param search query string false "Match title, details, or tag name"
// @Param category query int false "Category ID"
// @Param tags query string false "Comma-separated tag names"
// @Param status query string false "Project status (defaults to active)"
// @Param page query int false "Page number"
// @Router /projects [get]
func (s *Server) GetProjects(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePage(c, 20)

	status := c.Query("status")
	if status == "" {
		status = models.ProjectStatusActive
	}

	filter := repository.ProjectFilter{
		Search:    c.Query("search"),
		Title:     c.Query("title"),
		MinTarget: int64(c.QueryInt("min_target", 0)),
		MaxTarget: int64(c.QueryInt("max_target", 0)),
		Status:    status,
	}
	if categoryID := c.QueryInt("category", 0); categoryID > 0 {
		filter.CategoryID = uint(categoryID)
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	projects, total, err := s.projectService.ListProjects(ctx, filter, page.Size, page.Offset())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(pageEnvelope(projects, page, total))
}

// GetHomepage handles GET /api/projects/homepage
// @Summary Homepage shelves
// @Description Top five rated, latest five, and five featured active projects
// @Tags projects
// @Produce json
// @Success 200 {object} service.HomepageView
// @Router /projects/homepage [get]
func (s *Server) GetHomepage(c *fiber.Ctx) error {
	view, err := s.projectService.Homepage(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// GetProject handles GET /api/projects/:id
// When the request carries a valid token the payload includes the caller's
// own rating so the client can preselect it.
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.projectService.GetProject(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if userID, ok := c.Locals("userID").(uint); ok {
		rating, err := s.ratingService.GetUserRating(c.UserContext(), id, userID)
		if err == nil && rating != nil {
			project.UserRating = &rating.Value
		}
	}

	return c.JSON(project)
}

// GetSimilarProjects handles GET /api/projects/:id/similar
func (s *Server) GetSimilarProjects(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	projects, err := s.projectService.SimilarProjects(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(projects)
}

// CreateProject handles POST /api/projects
func (s *Server) CreateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string    `json:"title"`
		Details     string    `json:"details"`
		TotalTarget int64     `json:"total_target"`
		CategoryID  *uint     `json:"category_id"`
		Tags        []string  `json:"tags"`
		StartTime   time.Time `json:"start_time"`
		EndTime     time.Time `json:"end_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.CreateProject(c.UserContext(), service.CreateProjectInput{
		OwnerID:     userID,
		Title:       req.Title,
		Details:     req.Details,
		TotalTarget: req.TotalTarget,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PUT /api/projects/:id
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string     `json:"title"`
		Details     string     `json:"details"`
		TotalTarget int64      `json:"total_target"`
		CategoryID  *uint      `json:"category_id"`
		Tags        []string   `json:"tags"`
		EndTime     *time.Time `json:"end_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.UpdateProject(c.UserContext(), service.UpdateProjectInput{
		UserID:      userID,
		ProjectID:   projectID,
		Title:       req.Title,
		Details:     req.Details,
		TotalTarget: req.TotalTarget,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(project)
}

// CancelProject handles POST /api/projects/:id/cancel
// Cancelation is only allowed while donations sit below 25% of the target.
func (s *Server) CancelProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, notices, err := s.projectService.CancelProject(c.UserContext(), service.CancelProjectInput{
		UserID:    userID,
		ProjectID: projectID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": project,
		"notices": notices,
	})
}

// DeleteProject handles DELETE /api/projects/:id
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.projectService.DeleteProject(c.UserContext(), service.DeleteProjectInput{
		UserID:    userID,
		ProjectID: projectID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.projectService.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.projectService.ListTags(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// FeatureProject handles POST /api/admin/projects/:id/feature
func (s *Server) FeatureProject(c *fiber.Ctx) error {
	return s.setFeatured(c, true)
}

// UnfeatureProject handles DELETE /api/admin/projects/:id/feature
func (s *Server) UnfeatureProject(c *fiber.Ctx) error {
	return s.setFeatured(c, false)
}

func (s *Server) setFeatured(c *fiber.Ctx, featured bool) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.projectRepo.GetByID(c.UserContext(), projectID)
	if err != nil {
		return respondServiceError(c, err)
	}
	project.IsFeatured = featured
	if err := s.projectRepo.Update(c.UserContext(), project); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(project)
}
