package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crowdfund/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "creator", false)

	app := authedApp(owner.ID)
	app.Post("/projects", s.CreateProject)

	end := time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339)

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, app, "/projects", fmt.Sprintf(
			`{"title":"Solar Fountain","details":"Panels and pumps","total_target":5000,"tags":["solar","water"],"end_time":%q}`, end))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)

		assert.Equal(t, "Solar Fountain", body["title"])
		assert.Equal(t, models.ProjectStatusActive, body["status"])
		assert.Equal(t, float64(owner.ID), body["owner_id"])
		assert.Equal(t, float64(0), body["percent_funded"])

		var count int64
		require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("missing title", func(t *testing.T) {
		resp := postJSON(t, app, "/projects", fmt.Sprintf(
			`{"details":"x","total_target":5000,"end_time":%q}`, end))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing end time", func(t *testing.T) {
		resp := postJSON(t, app, "/projects",
			`{"title":"No Deadline","details":"x","total_target":5000}`)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown category", func(t *testing.T) {
		resp := postJSON(t, app, "/projects", fmt.Sprintf(
			`{"title":"Miscategorized","details":"x","total_target":5000,"category_id":999,"end_time":%q}`, end))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetProject(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "owner", false)
	project := createTestProject(t, db, owner.ID, 1000)
	require.NoError(t, db.Create(&models.Donation{ProjectID: project.ID, UserID: &owner.ID, Amount: 300}).Error)

	app := fiber.New()
	app.Get("/projects/:id", s.GetProject)

	t.Run("found with stats", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		assert.Equal(t, float64(300), body["total_donations"])
		assert.Equal(t, float64(1), body["donations_count"])
		assert.Equal(t, float64(30), body["percent_funded"])
		assert.Nil(t, body["average_rating"])
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects/9999", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetProjects_PaginationEnvelope(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "lister", false)
	for i := 0; i < 5; i++ {
		createTestProject(t, db, owner.ID, 1000)
	}

	app := fiber.New()
	app.Get("/projects", s.GetProjects)

	req := httptest.NewRequest(http.MethodGet, "/projects?page=2&page_size=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(5), body["count"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(2), body["page_size"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Equal(t, true, body["has_previous"])
	assert.Equal(t, true, body["has_next"])
	results := body["results"].([]any)
	assert.Len(t, results, 2)
}

func TestGetProjects_DefaultsToActive(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "browser", false)
	active := createTestProject(t, db, owner.ID, 1000)
	canceled := createTestProject(t, db, owner.ID, 1000)
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", canceled.ID).
		Update("status", models.ProjectStatusCanceled).Error)

	app := fiber.New()
	app.Get("/projects", s.GetProjects)

	// No status param: canceled projects must not surface in the browse list.
	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(1), body["count"])
	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, float64(active.ID), first["id"])
	assert.Equal(t, models.ProjectStatusActive, first["status"])
}

func TestGetProjects_Search(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "searcher", false)

	solar := models.Tag{Name: "solar"}
	require.NoError(t, db.Create(&solar).Error)

	reef := models.Project{
		Title:       "Save the Reef",
		Details:     "Coral restoration off the coast",
		TotalTarget: 1000,
		OwnerID:     owner.ID,
		StartTime:   time.Now().Add(-time.Hour),
		EndTime:     time.Now().Add(30 * 24 * time.Hour),
		Status:      models.ProjectStatusActive,
	}
	require.NoError(t, db.Create(&reef).Error)

	village := models.Project{
		Title:       "Village Power",
		Details:     "Micro-grid for the school",
		TotalTarget: 1000,
		OwnerID:     owner.ID,
		StartTime:   time.Now().Add(-time.Hour),
		EndTime:     time.Now().Add(30 * 24 * time.Hour),
		Status:      models.ProjectStatusActive,
	}
	require.NoError(t, db.Create(&village).Error)
	require.NoError(t, db.Model(&village).Association("Tags").Append(&solar))

	app := fiber.New()
	app.Get("/projects", s.GetProjects)

	search := func(t *testing.T, query string) []any {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/projects?search="+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		return body["results"].([]any)
	}

	t.Run("title match is case-insensitive", func(t *testing.T) {
		results := search(t, "REEF")
		require.Len(t, results, 1)
		assert.Equal(t, float64(reef.ID), results[0].(map[string]any)["id"])
	})

	t.Run("details match", func(t *testing.T) {
		results := search(t, "micro-grid")
		require.Len(t, results, 1)
		assert.Equal(t, float64(village.ID), results[0].(map[string]any)["id"])
	})

	t.Run("tag name match", func(t *testing.T) {
		// "solar" appears in neither title nor details of the village project.
		results := search(t, "solar")
		require.Len(t, results, 1)
		assert.Equal(t, float64(village.ID), results[0].(map[string]any)["id"])
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, search(t, "opera"))
	})
}

func TestGetProjects_StatusFilter(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "filterer", false)
	createTestProject(t, db, owner.ID, 1000)
	canceled := createTestProject(t, db, owner.ID, 1000)
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", canceled.ID).
		Update("status", models.ProjectStatusCanceled).Error)

	app := fiber.New()
	app.Get("/projects", s.GetProjects)

	req := httptest.NewRequest(http.MethodGet, "/projects?status=canceled", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	assert.Equal(t, float64(1), body["count"])
	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, float64(canceled.ID), first["id"])
}

func TestCancelProject(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "canceler", false)
	stranger := createTestUser(t, db, "stranger", false)

	cancelPath := func(id uint) string { return fmt.Sprintf("/projects/%d/cancel", id) }

	t.Run("allowed below a quarter funded", func(t *testing.T) {
		project := createTestProject(t, db, owner.ID, 1000)
		require.NoError(t, db.Create(&models.Donation{ProjectID: project.ID, Amount: 249}).Error)

		app := authedApp(owner.ID)
		app.Post("/projects/:id/cancel", s.CancelProject)

		resp := postJSON(t, app, cancelPath(project.ID), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		projectBody := body["project"].(map[string]any)
		assert.Equal(t, models.ProjectStatusCanceled, projectBody["status"])
		notices := body["notices"].([]any)
		require.Len(t, notices, 1)

		var reloaded models.Project
		require.NoError(t, db.First(&reloaded, project.ID).Error)
		assert.Equal(t, models.ProjectStatusCanceled, reloaded.Status)
	})

	t.Run("blocked at a quarter funded", func(t *testing.T) {
		project := createTestProject(t, db, owner.ID, 1000)
		require.NoError(t, db.Create(&models.Donation{ProjectID: project.ID, Amount: 250}).Error)

		app := authedApp(owner.ID)
		app.Post("/projects/:id/cancel", s.CancelProject)

		resp := postJSON(t, app, cancelPath(project.ID), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		project := createTestProject(t, db, owner.ID, 1000)

		app := authedApp(stranger.ID)
		app.Post("/projects/:id/cancel", s.CancelProject)

		resp := postJSON(t, app, cancelPath(project.ID), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestUpdateProject(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "editor", false)
	admin := createTestUser(t, db, "moderator", true)
	stranger := createTestUser(t, db, "bystander", false)
	project := createTestProject(t, db, owner.ID, 1000)

	path := fmt.Sprintf("/projects/%d", project.ID)
	putJSON := func(t *testing.T, app *fiber.App, body string) *http.Response {
		t.Helper()
		req := httptest.NewRequest(http.MethodPut, path, newBody(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("owner can update", func(t *testing.T) {
		app := authedApp(owner.ID)
		app.Put("/projects/:id", s.UpdateProject)

		resp := putJSON(t, app, `{"title":"Renamed","details":"still the garden","total_target":2000}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Renamed", body["title"])
		assert.Equal(t, float64(2000), body["total_target"])
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		app := authedApp(stranger.ID)
		app.Put("/projects/:id", s.UpdateProject)

		resp := putJSON(t, app, `{"title":"Hijacked","details":"x","total_target":1}`)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin can update", func(t *testing.T) {
		app := authedApp(admin.ID)
		app.Put("/projects/:id", s.UpdateProject)

		resp := putJSON(t, app, `{"title":"Admin Edit","details":"moderated","total_target":2000}`)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "remover", false)
	project := createTestProject(t, db, owner.ID, 1000)

	app := authedApp(owner.ID)
	app.Delete("/projects/:id", s.DeleteProject)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetHomepage(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "curator", false)
	rater := createTestUser(t, db, "rater", false)

	for i := 0; i < 7; i++ {
		project := createTestProject(t, db, owner.ID, 1000)
		if i < 2 {
			require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).
				Update("is_featured", true).Error)
		}
		if i == 0 {
			require.NoError(t, db.Create(&models.Rating{
				ProjectID: project.ID, UserID: rater.ID, Value: 5,
			}).Error)
		}
	}

	app := fiber.New()
	app.Get("/projects/homepage", s.GetHomepage)

	req := httptest.NewRequest(http.MethodGet, "/projects/homepage", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	topRated := body["top_rated"].([]any)
	require.Len(t, topRated, 1, "only rated projects belong on the top shelf")
	first := topRated[0].(map[string]any)
	assert.Equal(t, float64(5), first["average_rating"])

	latest := body["latest"].([]any)
	assert.Len(t, latest, 5)

	featured := body["featured"].([]any)
	assert.Len(t, featured, 2)
}

func TestSimilarProjects(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "taggy", false)

	shared := models.Tag{Name: "ocean"}
	other := models.Tag{Name: "desert"}
	require.NoError(t, db.Create(&shared).Error)
	require.NoError(t, db.Create(&other).Error)

	base := createTestProject(t, db, owner.ID, 1000)
	require.NoError(t, db.Model(&base).Association("Tags").Append(&shared))

	neighbor := createTestProject(t, db, owner.ID, 1000)
	require.NoError(t, db.Model(&neighbor).Association("Tags").Append(&shared))

	unrelated := createTestProject(t, db, owner.ID, 1000)
	require.NoError(t, db.Model(&unrelated).Association("Tags").Append(&other))

	app := fiber.New()
	app.Get("/projects/:id/similar", s.GetSimilarProjects)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%d/similar", base.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()
	var results []map[string]any
	require.NoError(t, jsonDecode(resp, &results))
	require.Len(t, results, 1)
	assert.Equal(t, float64(neighbor.ID), results[0]["id"])
}

func TestFeatureProject(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	owner := createTestUser(t, db, "featured-owner", false)
	admin := createTestUser(t, db, "features", true)
	project := createTestProject(t, db, owner.ID, 1000)

	app := authedApp(admin.ID)
	app.Post("/admin/projects/:id/feature", s.FeatureProject)
	app.Delete("/admin/projects/:id/feature", s.UnfeatureProject)

	path := fmt.Sprintf("/admin/projects/%d/feature", project.ID)

	resp := postJSON(t, app, path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["is_featured"])

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	resp2, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	body = decodeBody(t, resp2)
	assert.Equal(t, false, body["is_featured"])
}

func TestGetCategoriesAndTags(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Category{Name: "Environment"}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "green"}).Error)

	app := fiber.New()
	app.Get("/categories", s.GetCategories)
	app.Get("/tags", s.GetTags)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()
	var categories []map[string]any
	require.NoError(t, jsonDecode(resp, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "Environment", categories[0]["name"])

	req = httptest.NewRequest(http.MethodGet, "/tags", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()
	var tags []map[string]any
	require.NoError(t, jsonDecode(resp, &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "green", tags[0]["name"])
}
