package core

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/huangsam/burndown/core/series"
	"github.com/huangsam/burndown/schema"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

type fakeSprint struct {
	name      string
	start     time.Time
	effective time.Time
	stories   []Story
	err       error
}

func (s *fakeSprint) Start() time.Time     { return s.start }
func (s *fakeSprint) Effective() time.Time { return s.effective }
func (s *fakeSprint) Name() string         { return s.name }

func (s *fakeSprint) Stories(context.Context) ([]Story, error) {
	return s.stories, s.err
}

type fakeRelease struct {
	sprints    []Sprint
	sprintErr  error
	backlog    []Story
	backlogErr error
	builds     atomic.Int32
	block      chan struct{}
}

func (r *fakeRelease) ClosedSprints(context.Context) ([]Sprint, error) {
	r.builds.Add(1)
	if r.block != nil {
		<-r.block
	}
	return r.sprints, r.sprintErr
}

func (r *fakeRelease) OpenBacklogStories(context.Context) ([]Story, error) {
	return r.backlog, r.backlogErr
}

// gatedRelease adds HasBurndown to a fakeRelease.
type gatedRelease struct {
	*fakeRelease
	ok bool
}

func (r gatedRelease) HasBurndown(context.Context) bool { return r.ok }

// fixedStory returns the same contribution whatever the sprints.
type fixedStory series.Contribution

func (s fixedStory) ProjectOnto([]Sprint) series.Contribution {
	return series.Contribution(s)
}

func story(points float64, created string, closed string) StoryItem {
	rec := schema.StoryRecord{Subject: "story", Points: points, CreatedOn: day(created)}
	if closed != "" {
		rec.ClosedOn = dayPtr(closed)
	}
	return StoryItem(rec)
}

// fourSprints returns four consecutive two-week sprints starting 2024-01-01.
func fourSprints() []*fakeSprint {
	return []*fakeSprint{
		{name: "Sprint 1", start: day("2024-01-01"), effective: day("2024-01-14")},
		{name: "Sprint 2", start: day("2024-01-15"), effective: day("2024-01-28")},
		{name: "Sprint 3", start: day("2024-01-29"), effective: day("2024-02-11")},
		{name: "Sprint 4", start: day("2024-02-12"), effective: day("2024-02-25")},
	}
}

func asSprints(fs []*fakeSprint) []Sprint {
	out := make([]Sprint, len(fs))
	for i, s := range fs {
		out[i] = s
	}
	return out
}

// scenarioRelease has one original 5 point story closed in sprint slot 2,
// one 3 point story added in slot 3, and 15 open original points.
func scenarioRelease() *fakeRelease {
	sprints := fourSprints()
	sprints[2].stories = []Story{story(5, "2023-12-20", "2024-02-05")}
	sprints[3].stories = []Story{story(3, "2024-02-20", "")}
	return &fakeRelease{
		sprints: asSprints(sprints),
		backlog: []Story{story(15, "2023-12-01", "")},
	}
}
