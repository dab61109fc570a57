package iocache

import (
	"sync"

	"github.com/huangsam/burndown/internal/contract"
)

// StoreManager holds the bundle cache and release data stores of one process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	bundles      contract.CacheStore
	releases     contract.ReleaseStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps already opened stores. Either may be nil.
func NewStoreManager(bundles contract.CacheStore, releases contract.ReleaseStore) *StoreManager {
	return &StoreManager{bundles: bundles, releases: releases}
}

// GetBundleStore returns the bundle CacheStore.
func (mgr *StoreManager) GetBundleStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.bundles
}

// GetReleaseStore returns the release data store.
func (mgr *StoreManager) GetReleaseStore() contract.ReleaseStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.releases
}
