package iocache

import (
	"context"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetBundleStore implements the CacheManager interface.
func (m *MockCacheManager) GetBundleStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetReleaseStore implements the CacheManager interface.
func (m *MockCacheManager) GetReleaseStore() contract.ReleaseStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReleaseStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockReleaseStore is a mock implementation of ReleaseStore for testing.
type MockReleaseStore struct {
	mock.Mock
}

var _ contract.ReleaseStore = &MockReleaseStore{} // Compile-time check

// ListReleases implements the ReleaseStore interface.
func (m *MockReleaseStore) ListReleases(ctx context.Context) ([]schema.ReleaseRecord, error) {
	args := m.Called(ctx)
	releases, _ := args.Get(0).([]schema.ReleaseRecord)
	return releases, args.Error(1)
}

// GetRelease implements the ReleaseStore interface.
func (m *MockReleaseStore) GetRelease(ctx context.Context, id string) (schema.ReleaseRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.ReleaseRecord), args.Error(1)
}

// ClosedSprints implements the ReleaseStore interface.
func (m *MockReleaseStore) ClosedSprints(ctx context.Context, release schema.ReleaseRecord) ([]schema.SprintRecord, error) {
	args := m.Called(ctx, release)
	sprints, _ := args.Get(0).([]schema.SprintRecord)
	return sprints, args.Error(1)
}

// SprintStories implements the ReleaseStore interface.
func (m *MockReleaseStore) SprintStories(ctx context.Context, sprintID string) ([]schema.StoryRecord, error) {
	args := m.Called(ctx, sprintID)
	stories, _ := args.Get(0).([]schema.StoryRecord)
	return stories, args.Error(1)
}

// OpenBacklog implements the ReleaseStore interface.
func (m *MockReleaseStore) OpenBacklog(ctx context.Context, projectID string) ([]schema.StoryRecord, error) {
	args := m.Called(ctx, projectID)
	stories, _ := args.Get(0).([]schema.StoryRecord)
	return stories, args.Error(1)
}

// ImportFixture implements the ReleaseStore interface.
func (m *MockReleaseStore) ImportFixture(ctx context.Context, fixture schema.ReleaseFixture) error {
	args := m.Called(ctx, fixture)
	return args.Error(0)
}

// GetStatus implements the ReleaseStore interface.
func (m *MockReleaseStore) GetStatus() (schema.DataStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.DataStatus), args.Error(1)
}

// Close implements the ReleaseStore interface.
func (m *MockReleaseStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
