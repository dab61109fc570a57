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

// PrintBurndownResults outputs a burndown, dispatching based on the output format configured.
func PrintBurndownResults(result schema.BurndownResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONBurndown(w, result)
		}, "Wrote JSON burndown"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBurndown(w, result, fmtFloat)
		}, "Wrote CSV burndown"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBurndownParquet(parquet.ConvertBurndownResult(result), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteBurndownTable(w, result, cfg, duration)
		}, "Wrote burndown table"); err != nil {
			return fmt.Errorf("error writing burndown table output: %w", err)
		}
	}
	return nil
}

// WriteBurndownTable writes one row per closed sprint, then the forecast and label.
// Padded forecast slots carry no data and are left out of the table.
func WriteBurndownTable(w io.Writer, result schema.BurndownResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	rel := result.Release.Release
	_, _ = fmt.Fprintf(w, "Release %s: %s → %s, %d workdays\n",
		rel.Name,
		rel.StartDate.Format(contract.DateFormat),
		rel.EndDate.Format(contract.DateFormat),
		result.Release.Workdays)

	if result.Sprints == 0 {
		_, _ = fmt.Fprintln(w, "No closed sprints in the release window yet.")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"#", "Sprint", "Added", "Added+", "Backlog", "Closed", "Remaining"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		nameWidth := getMaxTableNameWidth(cfg)
		data := make([][]string, 0, result.Sprints)
		for i := range result.Sprints {
			remaining := result.AddedPoints[i] + result.AddedPointsPos[i] + result.BacklogPoints[i]
			data = append(data, []string{
				fmt.Sprintf("%d", i+1),
				contract.TruncateText(result.SlotName(i), nameWidth),
				fmtFloat(result.AddedPoints[i]),
				fmtFloat(result.AddedPointsPos[i]),
				fmtFloat(result.BacklogPoints[i]),
				fmtFloat(result.ClosedPoints[i]),
				fmtFloat(remaining),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "Closed trend: %s\n", formatTrend(result.TrendClosed, fmtFloat))
	_, _ = fmt.Fprintf(w, "Added trend:  %s\n", formatTrend(result.TrendAdded, fmtFloat))
	_, _ = fmt.Fprintf(w, "Outlook: %s\n", formatLabel(result.Label, cfg))

	source := "computed"
	if result.Cached {
		source = "cached"
	}
	_, _ = fmt.Fprintf(w, "Burndown %s in %v. Cache backend: %s\n", source, duration, cfg.CacheBackend)
	return nil
}

// formatTrend renders a forecast line as its vertices, or "n/a" when there is none.
func formatTrend(points []schema.TrendPoint, fmtFloat func(float64) string) string {
	if len(points) == 0 {
		return "n/a"
	}
	out := ""
	for i, p := range points {
		if i > 0 {
			out += " → "
		}
		out += fmt.Sprintf("(%s, %s)", formatPosition(p.X), fmtFloat(p.Y))
	}
	return out
}
