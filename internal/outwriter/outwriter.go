// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteBurndown prints a release burndown using the configured output format.
func (ow *OutWriter) WriteBurndown(result schema.BurndownResult, cfg *contract.Config, duration time.Duration) error {
	return PrintBurndownResults(result, cfg, duration)
}

// WriteReleases prints the release listing using the configured output format.
func (ow *OutWriter) WriteReleases(summaries []schema.ReleaseSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintReleaseSummaries(summaries, cfg, duration)
}

// LogBurndownHeader prints a concise, 2-line header before a burndown is computed.
// It goes to stderr so that stdout only carries the result.
func LogBurndownHeader(cfg *contract.Config, rec schema.ReleaseRecord) {
	writeBurndownHeader(os.Stderr, cfg, rec)
}

func writeBurndownHeader(w io.Writer, cfg *contract.Config, rec schema.ReleaseRecord) {
	name := rec.Name
	if name == "" {
		name = rec.ID
	}

	// Line 1: which release and project
	_, _ = fmt.Fprintf(w, "🔎 Release: %s (Project: %s)\n", name, rec.ProjectID)

	// Line 2: the release window and the forecast settings
	_, _ = fmt.Fprintf(w, "📅 Range: %s → %s (window %d, horizon %d)\n",
		rec.StartDate.Format(contract.DateFormat),
		rec.EndDate.Format(contract.DateFormat),
		cfg.ForecastWindow, cfg.ForecastHorizon)
}
