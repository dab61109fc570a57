package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/burndown/schema"
)

// Color variables for console output.
var (
	ConvergingColor = color.New(color.FgGreen, color.Bold) // work is closing faster than it is added
	StalledColor    = color.New(color.FgYellow)            // closing and adding at the same pace
	DivergingColor  = color.New(color.FgRed, color.Bold)   // scope outpaces closure
	UnknownColor    = color.New(color.FgCyan)              // not enough sprints to tell
)

// GetPlainLabel returns the plain text of a trend label.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(label schema.TrendLabel) string {
	if label == "" {
		return string(schema.UnknownTrend)
	}
	return string(label)
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(label schema.TrendLabel) string {
	text := GetPlainLabel(label)

	switch schema.TrendLabel(text) {
	case schema.ConvergingTrend:
		return ConvergingColor.Sprint(text)
	case schema.StalledTrend:
		return StalledColor.Sprint(text)
	case schema.DivergingTrend:
		return DivergingColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for bundle cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".burndown_cache.db"
	}
	return filepath.Join(homeDir, ".burndown_cache.db")
}

// GetDataDBFilePath returns the path to the SQLite DB file for release data.
func GetDataDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".burndown_data.db"
	}
	return filepath.Join(homeDir, ".burndown_data.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
