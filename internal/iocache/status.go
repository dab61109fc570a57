package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/burndown/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintDataStatus prints release data store status information.
func PrintDataStatus(w io.Writer, status schema.DataStatus) {
	_, _ = fmt.Fprintf(w, "Data Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Schema Version: %d (latest %d)\n", status.SchemaVersion, LatestSchemaVersion)
	_, _ = fmt.Fprintf(w, "Releases: %d\n", status.TotalReleases)
	_, _ = fmt.Fprintf(w, "Sprints: %d\n", status.TotalSprints)
	_, _ = fmt.Fprintf(w, "Stories: %d\n", status.TotalStories)
	if status.LatestRelease != "" {
		_, _ = fmt.Fprintf(w, "Latest Release: %s (ends %s)\n", status.LatestRelease, status.LatestReleaseEnd.Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
