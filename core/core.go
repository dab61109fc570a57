// Package core has core logic for release burndown aggregation and forecasting.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/outwriter"
	"github.com/huangsam/burndown/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// errNoReleaseStore is returned when no release data store was initialized.
var errNoReleaseStore = errors.New("release data store is not initialized")

// ExecuteBurndownChart computes the burndown of cfg.ReleaseID and prints it.
// It serves as the main entry point for the 'chart' command.
func ExecuteBurndownChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetBurndownResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBurndown(result, cfg, duration)
}

// GetBurndownResults computes the burndown of cfg.ReleaseID without printing it.
func GetBurndownResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.BurndownResult, time.Duration, error) {
	start := time.Now()
	store := mgr.GetReleaseStore()
	if store == nil {
		return schema.BurndownResult{}, 0, errNoReleaseStore
	}
	rec, err := store.GetRelease(ctx, cfg.ReleaseID)
	if err != nil {
		return schema.BurndownResult{}, 0, fmt.Errorf("release %q: %w", cfg.ReleaseID, err)
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogBurndownHeader(cfg, rec)
	}

	release := NewStoreRelease(store, rec)
	builder := NewBuilder(Forecaster{Window: cfg.ForecastWindow, Horizon: cfg.ForecastHorizon})
	rb := NewReleaseBurndown(release, builder)
	if bundles := mgr.GetBundleStore(); bundles != nil {
		rb.WithCacheStore(bundles, cfg.Refresh)
	}
	bundle, err := rb.ComputeOrReuse(ctx)
	if err != nil {
		return schema.BurndownResult{}, 0, fmt.Errorf("release %q: %w", rec.Name, err)
	}

	result := NewBurndownResult(release, bundle, cfg.AsOf)
	result.Cached = rb.FromCache()
	return result, time.Since(start), nil
}

// NewBurndownResult flattens a bundle into an output record for the release.
func NewBurndownResult(release *StoreRelease, b *Bundle, asOf time.Time) schema.BurndownResult {
	get := func(name schema.SeriesName) []float64 {
		v, _ := b.Get(name)
		return v
	}
	trend := func(name schema.SeriesName) []schema.TrendPoint {
		v, _ := b.Trend(name)
		return v
	}
	return schema.BurndownResult{
		Release: schema.ReleaseSummary{
			Release:       release.Record(),
			ClosedSprints: b.Sprints(),
			Workdays:      release.Days(asOf),
		},
		AsOf:           asOf,
		SprintNames:    b.SprintNames(),
		Sprints:        b.Sprints(),
		Horizon:        b.Horizon(),
		AddedPoints:    get(schema.AddedPoints),
		AddedPointsPos: get(schema.AddedPointsPos),
		BacklogPoints:  get(schema.BacklogPoints),
		ClosedPoints:   get(schema.ClosedPoints),
		TrendClosed:    trend(schema.TrendClosed),
		TrendAdded:     trend(schema.TrendAdded),
		Label:          Label(b),
	}
}

// ExecuteReleaseList lists the stored releases and prints them.
func ExecuteReleaseList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	summaries, duration, err := GetReleaseSummaries(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReleases(summaries, cfg, duration)
}

// GetReleaseSummaries returns every stored release with its closed sprint
// count and workdays up to cfg.AsOf.
func GetReleaseSummaries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ReleaseSummary, time.Duration, error) {
	start := time.Now()
	store := mgr.GetReleaseStore()
	if store == nil {
		return nil, 0, errNoReleaseStore
	}
	releases, err := store.ListReleases(ctx)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]schema.ReleaseSummary, 0, len(releases))
	for _, rec := range releases {
		release := NewStoreRelease(store, rec)
		sprints, err := store.ClosedSprints(ctx, rec)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot read sprints of release %s", rec.Name), err)
		}
		summaries = append(summaries, schema.ReleaseSummary{
			Release:       rec,
			ClosedSprints: len(sprints),
			Workdays:      release.Days(cfg.AsOf),
		})
	}
	return summaries, time.Since(start), nil
}
