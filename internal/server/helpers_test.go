package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"crowdfund/internal/config"
	"crowdfund/internal/database"
	"crowdfund/internal/middleware"
	"crowdfund/internal/models"
	"crowdfund/internal/repository"
	"crowdfund/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var initAuthOnce sync.Once

// newTestServer builds a Server against an in-memory sqlite database with all
// repositories and services wired, no Redis and no Prometheus middleware.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:   "handler-test-secret",
		Port:        "0",
		Env:         "test",
		MinDonation: 10,
	}
	// Every test server shares the same secret, so a single init is enough
	// and keeps parallel tests off the package-level auth state.
	initAuthOnce.Do(func() {
		middleware.InitMiddleware(cfg)
		middleware.InitAuthRedis(nil)
	})

	s := &Server{config: cfg, db: db}
	s.userRepo = repository.NewUserRepository(db)
	s.projectRepo = repository.NewProjectRepository(db)
	s.donationRepo = repository.NewDonationRepository(db)
	s.ratingRepo = repository.NewRatingRepository(db)
	s.commentRepo = repository.NewCommentRepository(db)
	s.categoryRepo = repository.NewCategoryRepository(db)
	s.reportRepo = repository.NewReportRepository(db)
	s.userService = service.NewUserService(s.userRepo)
	s.projectService = service.NewProjectService(s.projectRepo, s.categoryRepo, s.isAdminByUserID)
	s.donationService = service.NewDonationService(s.donationRepo, s.projectRepo, cfg.MinDonation)
	s.ratingService = service.NewRatingService(s.ratingRepo, s.projectRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.projectRepo, s.isAdminByUserID)
	s.pictureService = service.NewPictureService(s.projectRepo, s.isAdminByUserID)
	s.reportService = service.NewReportService(s.reportRepo, s.projectRepo, s.commentRepo, s.isAdminByUserID)

	return s, db
}

// authedApp returns a Fiber app whose requests carry the given user ID, the
// way AuthRequired would set it after validating a token.
func authedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, ownerID uint, target int64) models.Project {
	t.Helper()
	project := models.Project{
		Title:       "Community Garden",
		Details:     "Raised beds for the neighborhood",
		TotalTarget: target,
		OwnerID:     ownerID,
		StartTime:   time.Now().Add(-time.Hour),
		EndTime:     time.Now().Add(30 * 24 * time.Hour),
		Status:      models.ProjectStatusActive,
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func newBody(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

func jsonDecode(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// --- humanizeParam (pure function, no HTTP) ---

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"commentId", "comment ID"},
		{"pictureId", "picture ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

// --- parsePage ---

func TestParsePage_Defaults(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePage(c, 20)
		return c.JSON(fiber.Map{"page": p.Number, "size": p.Size, "offset": p.Offset()})
	})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(20), body["size"])
	assert.Equal(t, float64(0), body["offset"])
}

func TestParsePage_CustomAndClamped(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePage(c, 20)
		return c.JSON(fiber.Map{"page": p.Number, "size": p.Size, "offset": p.Offset()})
	})

	req := httptest.NewRequest(http.MethodGet, "/items?page=3&page_size=500", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(3), body["page"])
	assert.Equal(t, float64(maxPageSize), body["size"])
	assert.Equal(t, float64(2*maxPageSize), body["offset"])
}

func TestParsePage_NegativeValuesFallBack(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePage(c, 20)
		return c.JSON(fiber.Map{"page": p.Number, "size": p.Size})
	})

	req := httptest.NewRequest(http.MethodGet, "/items?page=-2&page_size=-5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(20), body["size"])
}

// --- pageEnvelope ---

func TestPageEnvelope(t *testing.T) {
	env := pageEnvelope([]int{1, 2, 3}, Page{Number: 2, Size: 3}, 7)

	assert.Equal(t, int64(7), env["count"])
	assert.Equal(t, 2, env["page"])
	assert.Equal(t, 3, env["page_size"])
	assert.Equal(t, 3, env["total_pages"])
	assert.Equal(t, true, env["has_previous"])
	assert.Equal(t, true, env["has_next"])
}

func TestPageEnvelope_EmptyResult(t *testing.T) {
	env := pageEnvelope([]int{}, Page{Number: 1, Size: 20}, 0)

	assert.Equal(t, 1, env["total_pages"])
	assert.Equal(t, false, env["has_previous"])
	assert.Equal(t, false, env["has_next"])
}

// --- parseID ---

func TestParseID_Valid(t *testing.T) {
	app := fiber.New()
	s := &Server{}
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"non-numeric", "/items/abc"},
		{"zero", "/items/0"},
		{"negative", "/items/-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			s := &Server{}
			app.Get("/items/:id", func(c *fiber.Ctx) error {
				_, _ = s.parseID(c, "id")
				return nil
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			body := decodeBody(t, resp)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], "Invalid ID")
		})
	}
}

// --- serviceErrorStatus ---

func TestServiceErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", models.NewValidationError("bad"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("Project", 7), http.StatusNotFound},
		{"unauthorized", models.NewUnauthorizedError("no"), http.StatusForbidden},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, serviceErrorStatus(tt.err))
		})
	}
}
