package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProjectKeyPrefix  = "project:%d"
	ProjectsListKey   = "projects:list"
	HomepageKey       = "projects:homepage"
	SimilarKeyPrefix  = "project:%d:similar"
	CommentsKeyPrefix = "project:%d:comments"
)

const (
	ProjectTTL  = 10 * time.Minute
	ListTTL     = 1 * time.Minute
	HomepageTTL = 5 * time.Minute
	CommentsTTL = 2 * time.Minute
)

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func SimilarKey(projectID uint) string {
	return fmt.Sprintf(SimilarKeyPrefix, projectID)
}

func CommentsKey(projectID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, projectID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateProject drops the cached detail payload for one project along
// with the list and homepage views that embed its aggregates.
func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx, ProjectKey(projectID), ProjectsListKey, HomepageKey)
}

// InvalidateComments drops the cached comment thread for one project.
func InvalidateComments(ctx context.Context, projectID uint) {
	Invalidate(ctx, CommentsKey(projectID))
}
