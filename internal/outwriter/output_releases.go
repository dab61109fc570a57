package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/parquet"
	"github.com/huangsam/burndown/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReleaseSummaries outputs the release listing, dispatching based on the output format configured.
func PrintReleaseSummaries(summaries []schema.ReleaseSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONReleases(w, summaries)
		}, "Wrote JSON releases"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReleases(w, summaries, fmtFloat, intFmt)
		}, "Wrote CSV releases"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteReleasesParquet(parquet.ConvertReleaseSummaries(summaries), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReleaseTable(w, summaries, cfg, duration)
		}, "Wrote release table"); err != nil {
			return fmt.Errorf("error writing release table output: %w", err)
		}
	}
	return nil
}

// WriteReleaseTable writes one row per release.
func WriteReleaseTable(w io.Writer, summaries []schema.ReleaseSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Project", "Start", "End", "Initial", "Sprints", "Workdays"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	data := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rel := s.Release
		data = append(data, []string{
			rel.ID,
			contract.TruncateText(rel.Name, nameWidth),
			rel.ProjectID,
			rel.StartDate.Format(contract.DateFormat),
			rel.EndDate.Format(contract.DateFormat),
			formatInitialPoints(rel.InitialStoryPoints, fmtFloat),
			fmt.Sprintf(intFmt, s.ClosedSprints),
			fmt.Sprintf(intFmt, s.Workdays),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Listed %d releases in %v. Data backend: %s\n", len(summaries), duration, cfg.DataBackend)
	return nil
}

// formatInitialPoints renders the planned scope, or "-" when it was never set.
func formatInitialPoints(points *float64, fmtFloat func(float64) string) string {
	if points == nil {
		return "-"
	}
	return fmtFloat(*points)
}
