package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// writeJSONReleases marshals the release summaries to JSON and writes them.
// An empty listing is written as an empty array rather than null.
func writeJSONReleases(w io.Writer, summaries []schema.ReleaseSummary) error {
	if summaries == nil {
		summaries = []schema.ReleaseSummary{}
	}
	return writeJSON(w, summaries)
}

// writeCSVReleases writes one CSV row per release.
func writeCSVReleases(w io.Writer, summaries []schema.ReleaseSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"id",
		"project_id",
		"name",
		"start_date",
		"end_date",
		"initial_story_points",
		"closed_sprints",
		"workdays",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			rel := s.Release
			initial := ""
			if rel.InitialStoryPoints != nil {
				initial = fmtFloat(*rel.InitialStoryPoints)
			}
			row := []string{
				rel.ID,
				rel.ProjectID,
				rel.Name,
				rel.StartDate.Format(contract.DateFormat),
				rel.EndDate.Format(contract.DateFormat),
				initial,
				fmt.Sprintf(intFmt, s.ClosedSprints),
				fmt.Sprintf(intFmt, s.Workdays),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
