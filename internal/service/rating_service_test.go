package service

import (
	"context"
	"errors"
	"testing"

	"crowdfund/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingService_RateProject_Validation(t *testing.T) {
	t.Parallel()

	svc := NewRatingService(noopRatingRepo(), noopProjectRepo())
	ctx := context.Background()

	for _, value := range []int{0, -1, 6, 100} {
		_, err := svc.RateProject(ctx, RateProjectInput{UserID: 1, ProjectID: 1, Value: value})
		assertValidationError(t, err)
	}
}

func TestRatingService_RateProject_Upserts(t *testing.T) {
	t.Parallel()

	stored := map[uint]int{}
	ratingRepo := noopRatingRepo()
	ratingRepo.upsertFn = func(_ context.Context, r *models.Rating) error {
		stored[r.UserID] = r.Value
		return nil
	}
	ratingRepo.getByProjectAndUserFn = func(_ context.Context, projectID, userID uint) (*models.Rating, error) {
		return &models.Rating{ProjectID: projectID, UserID: userID, Value: stored[userID]}, nil
	}

	svc := NewRatingService(ratingRepo, noopProjectRepo())
	ctx := context.Background()

	first, err := svc.RateProject(ctx, RateProjectInput{UserID: 1, ProjectID: 1, Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, first.Value)

	// Rating again replaces the score, it does not add a second row.
	second, err := svc.RateProject(ctx, RateProjectInput{UserID: 1, ProjectID: 1, Value: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Value)
	assert.Len(t, stored, 1)
}

func TestRatingService_RateProject_MissingProject(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("record not found")
	projectRepo := noopProjectRepo()
	projectRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Project, error) { return nil, repoErr }
	svc := NewRatingService(noopRatingRepo(), projectRepo)

	_, err := svc.RateProject(context.Background(), RateProjectInput{UserID: 1, ProjectID: 99, Value: 3})
	assert.ErrorIs(t, err, repoErr)
}

func TestRatingService_GetUserRating_NotRated(t *testing.T) {
	t.Parallel()

	ratingRepo := noopRatingRepo()
	ratingRepo.getByProjectAndUserFn = func(_ context.Context, _, _ uint) (*models.Rating, error) {
		return nil, errors.New("boom")
	}
	svc := NewRatingService(ratingRepo, noopProjectRepo())
	_, err := svc.GetUserRating(context.Background(), 1, 1)
	assert.Error(t, err)
}
