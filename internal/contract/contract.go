// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/burndown/schema"
)

// CacheManager defines the interface for managing the stores a command needs.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetBundleStore() CacheStore
	GetReleaseStore() ReleaseStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// ReleaseStore defines the operations for reading and loading release data.
type ReleaseStore interface {
	// ListReleases returns every release ordered by start date.
	ListReleases(ctx context.Context) ([]schema.ReleaseRecord, error)

	// GetRelease returns one release by id.
	GetRelease(ctx context.Context, id string) (schema.ReleaseRecord, error)

	// ClosedSprints returns the closed sprints of the release's project that
	// fall inside the release window, ordered by start date.
	ClosedSprints(ctx context.Context, release schema.ReleaseRecord) ([]schema.SprintRecord, error)

	// SprintStories returns the stories assigned to a sprint.
	SprintStories(ctx context.Context, sprintID string) ([]schema.StoryRecord, error)

	// OpenBacklog returns the stories of a project that have no sprint and are not closed.
	OpenBacklog(ctx context.Context, projectID string) ([]schema.StoryRecord, error)

	// ImportFixture stores a release together with its sprints and stories.
	ImportFixture(ctx context.Context, fixture schema.ReleaseFixture) error

	// GetStatus returns status information about the release store
	GetStatus() (schema.DataStatus, error)

	// Close closes the underlying connection
	Close() error
}
