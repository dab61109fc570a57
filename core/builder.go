package core

import (
	"context"
	"fmt"

	"github.com/huangsam/burndown/core/series"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"go.uber.org/zap"
)

// Builder computes burndown bundles from a release.
type Builder struct {
	Forecaster Forecaster
}

// NewBuilder creates a builder with the given forecaster.
func NewBuilder(f Forecaster) *Builder {
	return &Builder{Forecaster: f.normalized()}
}

// Build runs one burndown computation over the release's closed sprints and
// open backlog. A failed or empty sprint lookup yields a bundle with N = 0.
func (b *Builder) Build(ctx context.Context, release Release) (*Bundle, error) {
	return newBurndownBuild(ctx, release, b.Forecaster.normalized()).
		CollectSprints().
		RegisterSeries().
		AccumulateSprints().
		AccumulateBacklog().
		Finish()
}

// burndownBuild carries the state of one Build call. Each stage is a no-op
// once an earlier stage has failed.
type burndownBuild struct {
	ctx        context.Context
	release    Release
	forecaster Forecaster
	sprints    []Sprint
	store      *series.Store
	err        error
}

func newBurndownBuild(ctx context.Context, release Release, f Forecaster) *burndownBuild {
	return &burndownBuild{ctx: ctx, release: release, forecaster: f, store: series.New()}
}

// CollectSprints asks the release for its closed sprints.
func (bb *burndownBuild) CollectSprints() *burndownBuild {
	sprints, err := bb.release.ClosedSprints(bb.ctx)
	switch {
	case err != nil:
		contract.Logger().Debug("closed sprint lookup failed, building empty burndown", zap.Error(err))
		sprints = nil
	case len(sprints) == 0:
		contract.Logger().Debug("release has no closed sprints, building empty burndown")
	}
	bb.sprints = sprints
	return bb
}

// RegisterSeries registers the raw series with zero baselines.
func (bb *burndownBuild) RegisterSeries() *burndownBuild {
	if bb.err != nil {
		return bb
	}
	for _, name := range schema.RawSeries {
		if err := bb.store.Register(name, series.Zeros(len(bb.sprints))); err != nil {
			bb.err = fmt.Errorf("register %s: %w", name, err)
			return bb
		}
	}
	return bb
}

// AccumulateSprints projects every story of every closed sprint.
func (bb *burndownBuild) AccumulateSprints() *burndownBuild {
	if bb.err != nil {
		return bb
	}
	for i, sp := range bb.sprints {
		stories, err := sp.Stories(bb.ctx)
		if err != nil {
			bb.err = fmt.Errorf("stories of sprint %d: %w", i, err)
			return bb
		}
		if err := bb.accumulate(stories); err != nil {
			bb.err = fmt.Errorf("sprint %d: %w", i, err)
			return bb
		}
	}
	return bb
}

// AccumulateBacklog projects every open backlog story.
func (bb *burndownBuild) AccumulateBacklog() *burndownBuild {
	if bb.err != nil {
		return bb
	}
	stories, err := bb.release.OpenBacklogStories(bb.ctx)
	if err != nil {
		bb.err = fmt.Errorf("open backlog: %w", err)
		return bb
	}
	if err := bb.accumulate(stories); err != nil {
		bb.err = fmt.Errorf("open backlog: %w", err)
	}
	return bb
}

func (bb *burndownBuild) accumulate(stories []Story) error {
	for _, story := range stories {
		if err := bb.store.Accumulate(story.ProjectOnto(bb.sprints)); err != nil {
			return err
		}
	}
	return nil
}

// Finish stack-adjusts, forecasts and pads the accumulated series.
func (bb *burndownBuild) Finish() (*Bundle, error) {
	if bb.err != nil {
		return nil, bb.err
	}
	raw := make(map[schema.SeriesName][]float64, len(schema.RawSeries))
	for _, name := range schema.RawSeries {
		v, err := bb.store.Vector(name)
		if err != nil {
			return nil, err
		}
		raw[name] = v
	}
	adjusted, err := stackAdjust(raw[schema.BacklogPoints], raw[schema.AddedPoints], raw[schema.ClosedPoints])
	if err != nil {
		return nil, err
	}
	trendClosed, trendAdded := bb.forecaster.forecast(adjusted)
	contract.Logger().Debug("burndown built",
		zap.Int("sprints", len(bb.sprints)),
		zap.Int("window", bb.forecaster.Window),
		zap.Int("horizon", bb.forecaster.Horizon))
	return newBundle(sprintNames(bb.sprints), bb.forecaster.Horizon, adjusted, trendClosed, trendAdded), nil
}
