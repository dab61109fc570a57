package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/burndown/internal/parquet"
	"github.com/huangsam/burndown/schema"
)

// writeJSONBurndown marshals the schema.BurndownResult to JSON and writes it.
func writeJSONBurndown(w io.Writer, result schema.BurndownResult) error {
	return writeJSON(w, result)
}

// writeCSVBurndown writes every series of the burndown in long format, the
// same rows the Parquet export carries.
func writeCSVBurndown(w io.Writer, result schema.BurndownResult, fmtFloat func(float64) string) error {
	header := []string{"release_id", "series", "x", "y", "sprint", "forecast"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range parquet.ConvertBurndownResult(result) {
			sprint := ""
			if p.SlotName != nil {
				sprint = *p.SlotName
			}
			row := []string{
				p.ReleaseID,
				p.Series,
				formatPosition(p.X),
				fmtFloat(p.Y),
				sprint,
				strconv.FormatBool(p.Forecast),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
