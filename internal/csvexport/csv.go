// Package csvexport serializes places into spreadsheet-compatible CSV.
//
// Every field is quoted so spreadsheet tools never reinterpret values such
// as phone numbers or ratings. Output written to files or downloads is
// prefixed with a UTF-8 byte-order mark so non-ASCII text opens correctly.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jackzampolin/mapscrape/internal/extract"
	"github.com/jackzampolin/mapscrape/internal/types"
)

const (
	// BOM is the UTF-8 byte-order mark prepended to emitted files.
	BOM = "\uFEFF"

	// ContentType is the media type used for downloads.
	ContentType = "text/csv;charset=utf-8"
)

// MapsURLColumn follows the table columns in every export.
const MapsURLColumn = "Google Maps URL"

// Header is the fixed CSV header row: the table columns plus MapsURLColumn.
var Header = append(slices.Clone(extract.Columns), MapsURLColumn)

// Build renders places as CSV text without a BOM.
// Lines are joined with "\n" and there is no trailing newline.
func Build(places []types.Place) string {
	lines := make([]string, 0, len(places)+1)
	lines = append(lines, joinQuoted(Header))
	for _, p := range places {
		lines = append(lines, joinQuoted(append(p.Fields(), p.GoogleMapsURL)))
	}
	return strings.Join(lines, "\n")
}

func joinQuoted(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	return strings.Join(quoted, ",")
}

// quote wraps a field in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Write emits the BOM followed by csv.
func Write(w io.Writer, csv string) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return fmt.Errorf("failed to write byte-order mark: %w", err)
	}
	if _, err := io.WriteString(w, csv); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteFile writes csv with a BOM to path.
func WriteFile(path, csv string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, csv); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Parse reads CSV text back into rows. A leading BOM is ignored.
func Parse(text string) ([][]string, error) {
	text = strings.TrimPrefix(text, BOM)
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = len(Header)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

// Check parses an export and verifies it starts with Header and that every
// row has len(Header) fields. It returns the number of place rows.
func Check(data []byte) (int, error) {
	rows, err := Parse(string(data))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("csv has no header row")
	}
	if !slices.Equal(rows[0], Header) {
		return 0, fmt.Errorf("unexpected csv header: %q", rows[0])
	}
	return len(rows) - 1, nil
}

// Exporter renders places into a downloadable CSV payload.
type Exporter struct{}

// New creates a CSV exporter.
func New() *Exporter { return &Exporter{} }

// Format returns the export format name.
func (e *Exporter) Format() string { return "csv" }

// ContentType returns the download media type.
func (e *Exporter) ContentType() string { return ContentType }

// Filename returns the download filename for a search.
func (e *Exporter) Filename(category, location string) string {
	return Filename(category, location)
}

// Export returns the BOM-prefixed CSV bytes for places.
func (e *Exporter) Export(places []types.Place) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, Build(places)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
