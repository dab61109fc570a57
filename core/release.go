package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/burndown/core/series"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// ErrNoBurndown is returned for releases that lack the dates, initial points
// or sprint data a burndown needs.
var ErrNoBurndown = errors.New("release has no burndown")

// Release supplies the sprints and open backlog a burndown is built from.
type Release interface {
	ClosedSprints(ctx context.Context) ([]Sprint, error)
	OpenBacklogStories(ctx context.Context) ([]Story, error)
}

// Sprint is a closed iteration of a release.
type Sprint interface {
	Start() time.Time
	Effective() time.Time
	Stories(ctx context.Context) ([]Story, error)
}

// Story projects its points onto a sprint sequence.
type Story interface {
	ProjectOnto(sprints []Sprint) series.Contribution
}

// StoreRelease is a Release read from the release data store.
type StoreRelease struct {
	store  contract.ReleaseStore
	record schema.ReleaseRecord
}

// NewStoreRelease wraps a stored release record.
func NewStoreRelease(store contract.ReleaseStore, record schema.ReleaseRecord) *StoreRelease {
	return &StoreRelease{store: store, record: record}
}

// Record returns the underlying release record.
func (r *StoreRelease) Record() schema.ReleaseRecord {
	return r.record
}

// ClosedSprints returns the closed sprints inside the release window.
func (r *StoreRelease) ClosedSprints(ctx context.Context) ([]Sprint, error) {
	records, err := r.store.ClosedSprints(ctx, r.record)
	if err != nil {
		return nil, err
	}
	sprints := make([]Sprint, len(records))
	for i, rec := range records {
		sprints[i] = &storeSprint{store: r.store, record: rec}
	}
	return sprints, nil
}

// OpenBacklogStories returns the project's open stories outside any sprint.
func (r *StoreRelease) OpenBacklogStories(ctx context.Context) ([]Story, error) {
	records, err := r.store.OpenBacklog(ctx, r.record.ProjectID)
	if err != nil {
		return nil, err
	}
	return wrapStories(records), nil
}

// HasBurndown reports whether the release carries start and end dates, its
// initial story points, and whether its closed sprints can be looked up.
func (r *StoreRelease) HasBurndown(ctx context.Context) bool {
	rec := r.record
	if rec.StartDate.IsZero() || rec.EndDate.IsZero() || rec.InitialStoryPoints == nil {
		return false
	}
	_, err := r.store.ClosedSprints(ctx, rec)
	return err == nil
}

// Days returns the workdays from the release start to cutoff, or to the
// release end when cutoff is zero.
func (r *StoreRelease) Days(cutoff time.Time) int {
	if cutoff.IsZero() {
		cutoff = r.record.EndDate
	}
	return contract.Workdays(r.record.StartDate, cutoff)
}

// Fingerprint hashes every record the burndown depends on.
func (r *StoreRelease) Fingerprint(ctx context.Context) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(r.record); err != nil {
		return "", err
	}
	sprints, err := r.store.ClosedSprints(ctx, r.record)
	if err != nil {
		return "", err
	}
	if err := enc.Encode(sprints); err != nil {
		return "", err
	}
	for _, sp := range sprints {
		stories, err := r.store.SprintStories(ctx, sp.ID)
		if err != nil {
			return "", err
		}
		if err := enc.Encode(stories); err != nil {
			return "", err
		}
	}
	backlog, err := r.store.OpenBacklog(ctx, r.record.ProjectID)
	if err != nil {
		return "", err
	}
	if err := enc.Encode(backlog); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

type storeSprint struct {
	store  contract.ReleaseStore
	record schema.SprintRecord
}

func (s *storeSprint) Start() time.Time {
	return s.record.StartDate
}

// Effective is zero for a sprint that has not been closed.
func (s *storeSprint) Effective() time.Time {
	if s.record.EffectiveDate == nil {
		return time.Time{}
	}
	return *s.record.EffectiveDate
}

func (s *storeSprint) Stories(ctx context.Context) ([]Story, error) {
	records, err := s.store.SprintStories(ctx, s.record.ID)
	if err != nil {
		return nil, err
	}
	return wrapStories(records), nil
}

// Name returns the sprint name for display.
func (s *storeSprint) Name() string {
	return s.record.Name
}

func wrapStories(records []schema.StoryRecord) []Story {
	stories := make([]Story, len(records))
	for i, rec := range records {
		stories[i] = StoryItem(rec)
	}
	return stories
}

// StoryItem is a stored story that projects itself onto a sprint sequence.
type StoryItem schema.StoryRecord

// ProjectOnto returns the story's per-slot deltas against sprints.
//
// A story created on or before the first sprint's start is original scope and
// adds its points to the backlog in every slot. Otherwise it counts as added
// from the first sprint whose effective date is on or after its creation.
// A closed story leaves the backlog and counts as closed in the first sprint
// whose effective date is on or after its closing date. Sprint starts are not
// consulted, so a story closed after its own sprint ended lands in the next one.
func (s StoryItem) ProjectOnto(sprints []Sprint) series.Contribution {
	n := len(sprints)
	backlog := series.Zeros(n)
	added := series.Zeros(n)
	closed := series.Zeros(n)
	c := series.Contribution{
		schema.BacklogPoints: backlog,
		schema.AddedPoints:   added,
		schema.ClosedPoints:  closed,
	}
	if n == 0 {
		return c
	}

	if !s.CreatedOn.After(sprints[0].Start()) {
		for i := range backlog {
			backlog[i] += s.Points
		}
	} else if at := firstEffectiveOnOrAfter(sprints, s.CreatedOn); at >= 0 {
		for i := at; i < n; i++ {
			added[i] += s.Points
		}
	}

	if s.ClosedOn != nil {
		if at := firstEffectiveOnOrAfter(sprints, *s.ClosedOn); at >= 0 {
			for i := at; i < n; i++ {
				backlog[i] -= s.Points
			}
			closed[at] += s.Points
		}
	}
	return c
}

// firstEffectiveOnOrAfter returns the first sprint index whose effective date
// is not before t, or -1.
func firstEffectiveOnOrAfter(sprints []Sprint, t time.Time) int {
	for i, sp := range sprints {
		if !t.After(sp.Effective()) {
			return i
		}
	}
	return -1
}

// sprintNames returns display names for sprints, falling back to the index.
func sprintNames(sprints []Sprint) []string {
	names := make([]string, len(sprints))
	for i, sp := range sprints {
		if named, ok := sp.(interface{ Name() string }); ok && named.Name() != "" {
			names[i] = named.Name()
			continue
		}
		names[i] = fmt.Sprintf("Sprint %d", i+1)
	}
	return names
}
