package schema

import "time"

// CacheStatus represents the status of the bundle cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// DataStatus represents the status of the release data store.
type DataStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	SchemaVersion    uint             `json:"schema_version"`
	TotalReleases    int              `json:"total_releases"`
	TotalSprints     int              `json:"total_sprints"`
	TotalStories     int              `json:"total_stories"`
	LatestRelease    string           `json:"latest_release"`
	LatestReleaseEnd time.Time        `json:"latest_release_end"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
