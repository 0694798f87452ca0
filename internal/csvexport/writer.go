package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"foodrec/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for cleaning-log exports.
var columns = []string{
	"Query ID",
	"Raw Text",
	"Matched Catalog ID",
	"Matched Name",
	"Score",
	"Decision",
	"Detail",
}

// Writer wraps csv.Writer for exporting cleaning logs as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteEntries converts cleaning-log entries to CSV rows and writes
// them in the order given (the recorder already restored input order).
func (w *Writer) WriteEntries(entries []domain.CleaningLogEntry) error {
	for i := range entries {
		if err := w.csv.Write(entryToRow(&entries[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// entryToRow converts a single entry. Score is blank unless a match was
// chosen; the detail column carries the failure reason on error rows.
func entryToRow(e *domain.CleaningLogEntry) []string {
	row := make([]string, len(columns))
	row[0] = e.QueryID
	row[1] = e.RawText
	row[2] = e.ChosenID
	row[3] = e.ChosenName
	if e.ChosenID != "" {
		row[4] = strconv.FormatFloat(e.ChosenScore, 'f', 2, 64)
	}
	row[5] = string(e.Decision)
	row[6] = e.Detail
	return row
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a batch label for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses
// consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_label}_{YYYY-MM-DD}.csv
func BuildFilename(label string) string {
	sanitized := SanitizeFilename(label)
	if sanitized == "" {
		sanitized = "cleaning_log"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
