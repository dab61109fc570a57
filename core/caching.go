package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// currentCacheVersion defines the version of the cached bundle schema
const currentCacheVersion = 1

// maxCacheAge is how long a persisted bundle stays usable.
const maxCacheAge = 7 * 24 * time.Hour

// burndownGate is implemented by releases that can tell up front whether a
// burndown is available.
type burndownGate interface {
	HasBurndown(ctx context.Context) bool
}

// fingerprinter is implemented by releases whose content can be hashed for
// the persistent bundle cache.
type fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

// ReleaseBurndown memoizes the bundle of one release until Invalidate is called.
// Concurrent ComputeOrReuse calls share a single build.
type ReleaseBurndown struct {
	release Release
	builder *Builder
	store   contract.CacheStore
	refresh bool

	group  singleflight.Group
	mu     sync.RWMutex
	bundle *Bundle
	cached bool
}

// NewReleaseBurndown wraps a release with an explicit bundle cache.
func NewReleaseBurndown(release Release, builder *Builder) *ReleaseBurndown {
	if builder == nil {
		builder = NewBuilder(DefaultForecaster())
	}
	return &ReleaseBurndown{release: release, builder: builder}
}

// WithCacheStore adds a persistent tier. With refresh set, persisted bundles
// are ignored and overwritten.
func (rb *ReleaseBurndown) WithCacheStore(store contract.CacheStore, refresh bool) *ReleaseBurndown {
	rb.store = store
	rb.refresh = refresh
	return rb
}

// ComputeOrReuse returns the memoized bundle, building it on first use.
// It returns ErrNoBurndown when the release cannot have one.
func (rb *ReleaseBurndown) ComputeOrReuse(ctx context.Context) (*Bundle, error) {
	if b := rb.current(); b != nil {
		return b, nil
	}
	v, err, _ := rb.group.Do("bundle", func() (any, error) {
		if b := rb.current(); b != nil {
			return b, nil
		}
		if gate, ok := rb.release.(burndownGate); ok && !gate.HasBurndown(ctx) {
			return nil, ErrNoBurndown
		}
		b, cached, err := rb.compute(ctx)
		if err != nil {
			return nil, err
		}
		rb.mu.Lock()
		rb.bundle = b
		rb.cached = cached
		rb.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

// Invalidate drops the memoized bundle so the next call rebuilds it.
func (rb *ReleaseBurndown) Invalidate() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.bundle = nil
	rb.cached = false
}

// FromCache reports whether the memoized bundle was read from the persistent tier.
func (rb *ReleaseBurndown) FromCache() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.cached
}

func (rb *ReleaseBurndown) current() *Bundle {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.bundle
}

// compute builds the bundle, going through the persistent tier when one is set.
func (rb *ReleaseBurndown) compute(ctx context.Context) (*Bundle, bool, error) {
	fp, ok := rb.release.(fingerprinter)
	if rb.store == nil || !ok {
		b, err := rb.builder.Build(ctx, rb.release)
		return b, false, err
	}
	fingerprint, err := fp.Fingerprint(ctx)
	if err != nil {
		contract.Logger().Debug("release fingerprint failed, skipping bundle cache", zap.Error(err))
		b, err := rb.builder.Build(ctx, rb.release)
		return b, false, err
	}

	key := generateCacheKey(fingerprint, rb.builder.Forecaster)
	if !rb.refresh {
		if b := checkCacheHit(rb.store, key); b != nil {
			return b, true, nil
		}
	}
	b, err := computeAndStore(ctx, rb.builder, rb.release, rb.store, key)
	return b, false, err
}

// checkCacheHit attempts to retrieve and validate a cached bundle
func checkCacheHit(store contract.CacheStore, key string) *Bundle {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > maxCacheAge {
		return nil // Stale or version mismatch
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		contract.Logger().Debug("discarding unreadable cached bundle", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &b
}

// computeAndStore builds the bundle and stores it in cache
func computeAndStore(ctx context.Context, builder *Builder, release Release, store contract.CacheStore, key string) (*Bundle, error) {
	b, err := builder.Build(ctx, release)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(b); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache burndown", err)
		}
	}
	return b, nil
}

// generateCacheKey creates a unique key from the release content and forecast settings
func generateCacheKey(fingerprint string, f Forecaster) string {
	key := fmt.Sprintf("%s:%d:%d", fingerprint, f.Window, f.Horizon)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
