package service

import (
	"context"
	"errors"
	"testing"

	"crowdfund/internal/models"
	"crowdfund/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectRepoStub is a stub for repository.ProjectRepository.
type projectRepoStub struct {
	createFn        func(context.Context, *models.Project) error
	getByIDFn       func(context.Context, uint) (*models.Project, error)
	listFn          func(context.Context, repository.ProjectFilter, int, int) ([]*models.Project, int64, error)
	similarFn       func(context.Context, uint, int) ([]*models.Project, error)
	topRatedFn      func(context.Context, int) ([]*models.Project, error)
	latestFn        func(context.Context, int) ([]*models.Project, error)
	featuredFn      func(context.Context, int) ([]*models.Project, error)
	updateFn        func(context.Context, *models.Project) error
	updateStatusFn  func(context.Context, uint, string) error
	replaceTagsFn   func(context.Context, *models.Project, []models.Tag) error
	deleteFn        func(context.Context, uint) error
	addPictureFn    func(context.Context, *models.Picture) error
	listPicturesFn  func(context.Context, uint) ([]*models.Picture, error)
	deletePictureFn func(context.Context, uint, uint) error
}

func (s *projectRepoStub) Create(ctx context.Context, p *models.Project) error {
	return s.createFn(ctx, p)
}
func (s *projectRepoStub) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.getByIDFn(ctx, id)
}
func (s *projectRepoStub) List(ctx context.Context, f repository.ProjectFilter, limit, offset int) ([]*models.Project, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *projectRepoStub) Similar(ctx context.Context, id uint, limit int) ([]*models.Project, error) {
	return s.similarFn(ctx, id, limit)
}
func (s *projectRepoStub) TopRated(ctx context.Context, limit int) ([]*models.Project, error) {
	return s.topRatedFn(ctx, limit)
}
func (s *projectRepoStub) Latest(ctx context.Context, limit int) ([]*models.Project, error) {
	return s.latestFn(ctx, limit)
}
func (s *projectRepoStub) Featured(ctx context.Context, limit int) ([]*models.Project, error) {
	return s.featuredFn(ctx, limit)
}
func (s *projectRepoStub) Update(ctx context.Context, p *models.Project) error {
	return s.updateFn(ctx, p)
}
func (s *projectRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *projectRepoStub) ReplaceTags(ctx context.Context, p *models.Project, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, p, tags)
}
func (s *projectRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *projectRepoStub) AddPicture(ctx context.Context, p *models.Picture) error {
	return s.addPictureFn(ctx, p)
}
func (s *projectRepoStub) ListPictures(ctx context.Context, id uint) ([]*models.Picture, error) {
	return s.listPicturesFn(ctx, id)
}
func (s *projectRepoStub) DeletePicture(ctx context.Context, projectID, pictureID uint) error {
	return s.deletePictureFn(ctx, projectID, pictureID)
}

func noopProjectRepo() *projectRepoStub {
	return &projectRepoStub{
		createFn:  func(_ context.Context, _ *models.Project) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Project, error) { return &models.Project{}, nil },
		listFn: func(_ context.Context, _ repository.ProjectFilter, _, _ int) ([]*models.Project, int64, error) {
			return nil, 0, nil
		},
		similarFn:       func(_ context.Context, _ uint, _ int) ([]*models.Project, error) { return nil, nil },
		topRatedFn:      func(_ context.Context, _ int) ([]*models.Project, error) { return nil, nil },
		latestFn:        func(_ context.Context, _ int) ([]*models.Project, error) { return nil, nil },
		featuredFn:      func(_ context.Context, _ int) ([]*models.Project, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Project) error { return nil },
		updateStatusFn:  func(_ context.Context, _ uint, _ string) error { return nil },
		replaceTagsFn:   func(_ context.Context, _ *models.Project, _ []models.Tag) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		addPictureFn:    func(_ context.Context, _ *models.Picture) error { return nil },
		listPicturesFn:  func(_ context.Context, _ uint) ([]*models.Picture, error) { return nil, nil },
		deletePictureFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	listCategoriesFn  func(context.Context) ([]*models.Category, error)
	getCategoryFn     func(context.Context, uint) (*models.Category, error)
	createCategoryFn  func(context.Context, *models.Category) error
	listTagsFn        func(context.Context) ([]*models.Tag, error)
	getOrCreateTagsFn func(context.Context, []string) ([]models.Tag, error)
}

func (s *categoryRepoStub) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.listCategoriesFn(ctx)
}
func (s *categoryRepoStub) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.getCategoryFn(ctx, id)
}
func (s *categoryRepoStub) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.createCategoryFn(ctx, c)
}
func (s *categoryRepoStub) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.listTagsFn(ctx)
}
func (s *categoryRepoStub) GetOrCreateTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.getOrCreateTagsFn(ctx, names)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listCategoriesFn: func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		getCategoryFn:    func(_ context.Context, id uint) (*models.Category, error) { return &models.Category{ID: id}, nil },
		createCategoryFn: func(_ context.Context, _ *models.Category) error { return nil },
		listTagsFn:       func(_ context.Context) ([]*models.Tag, error) { return nil, nil },
		getOrCreateTagsFn: func(_ context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, len(names))
			for i, n := range names {
				tags[i] = models.Tag{ID: uint(i + 1), Name: n}
			}
			return tags, nil
		},
	}
}

// donationRepoStub is a stub for repository.DonationRepository.
type donationRepoStub struct {
	createFn        func(context.Context, *models.Donation) error
	listByProjectFn func(context.Context, uint, int, int) ([]*models.Donation, error)
	listByUserFn    func(context.Context, uint, int, int) ([]*models.Donation, error)
	sumForProjectFn func(context.Context, uint) (int64, error)
}

func (s *donationRepoStub) Create(ctx context.Context, d *models.Donation) error {
	return s.createFn(ctx, d)
}
func (s *donationRepoStub) ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*models.Donation, error) {
	return s.listByProjectFn(ctx, projectID, limit, offset)
}
func (s *donationRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Donation, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *donationRepoStub) SumForProject(ctx context.Context, projectID uint) (int64, error) {
	return s.sumForProjectFn(ctx, projectID)
}

func noopDonationRepo() *donationRepoStub {
	return &donationRepoStub{
		createFn:        func(_ context.Context, _ *models.Donation) error { return nil },
		listByProjectFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Donation, error) { return nil, nil },
		listByUserFn:    func(_ context.Context, _ uint, _, _ int) ([]*models.Donation, error) { return nil, nil },
		sumForProjectFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// ratingRepoStub is a stub for repository.RatingRepository.
type ratingRepoStub struct {
	upsertFn              func(context.Context, *models.Rating) error
	getByProjectAndUserFn func(context.Context, uint, uint) (*models.Rating, error)
	listByProjectFn       func(context.Context, uint) ([]*models.Rating, error)
	deleteFn              func(context.Context, uint, uint) error
}

func (s *ratingRepoStub) Upsert(ctx context.Context, r *models.Rating) error {
	return s.upsertFn(ctx, r)
}
func (s *ratingRepoStub) GetByProjectAndUser(ctx context.Context, projectID, userID uint) (*models.Rating, error) {
	return s.getByProjectAndUserFn(ctx, projectID, userID)
}
func (s *ratingRepoStub) ListByProject(ctx context.Context, projectID uint) ([]*models.Rating, error) {
	return s.listByProjectFn(ctx, projectID)
}
func (s *ratingRepoStub) Delete(ctx context.Context, projectID, userID uint) error {
	return s.deleteFn(ctx, projectID, userID)
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		upsertFn: func(_ context.Context, _ *models.Rating) error { return nil },
		getByProjectAndUserFn: func(_ context.Context, projectID, userID uint) (*models.Rating, error) {
			return &models.Rating{ProjectID: projectID, UserID: userID, Value: 3}, nil
		},
		listByProjectFn: func(_ context.Context, _ uint) ([]*models.Rating, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByProjectFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn        func(context.Context, *models.Comment) error
	setActiveFn     func(context.Context, uint, bool) error
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByProject(ctx context.Context, projectID uint) ([]*models.Comment, error) {
	return s.listByProjectFn(ctx, projectID)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) SetActive(ctx context.Context, id uint, active bool) error {
	return s.setActiveFn(ctx, id, active)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{IsActive: true}, nil },
		listByProjectFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		setActiveFn:     func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn     func(context.Context, *models.Report) error
	getByIDFn    func(context.Context, uint) (*models.Report, error)
	listFn       func(context.Context, string, int, int) ([]*models.Report, int64, error)
	updateFn     func(context.Context, *models.Report) error
	hasPendingFn func(context.Context, uint, string, uint) (bool, error)
}

func (s *reportRepoStub) Create(ctx context.Context, r *models.Report) error {
	return s.createFn(ctx, r)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) List(ctx context.Context, status string, limit, offset int) ([]*models.Report, int64, error) {
	return s.listFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) Update(ctx context.Context, r *models.Report) error {
	return s.updateFn(ctx, r)
}
func (s *reportRepoStub) HasPending(ctx context.Context, reporterID uint, subjectType string, subjectID uint) (bool, error) {
	return s.hasPendingFn(ctx, reporterID, subjectType, subjectID)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(_ context.Context, _ *models.Report) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Report, error) {
			return &models.Report{ID: id, Status: models.ReportStatusPending}, nil
		},
		listFn:       func(_ context.Context, _ string, _, _ int) ([]*models.Report, int64, error) { return nil, 0, nil },
		updateFn:     func(_ context.Context, _ *models.Report) error { return nil },
		hasPendingFn: func(_ context.Context, _ uint, _ string, _ uint) (bool, error) { return false, nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
