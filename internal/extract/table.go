// Package extract converts generated Markdown tables into places.
//
// Parsing is lenient: it never fails and never panics. Rows that cannot be
// read are skipped, and short rows are padded with "N/A".
package extract

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jackzampolin/mapscrape/internal/types"
)

// Columns lists the fixed table column order.
var Columns = []string{"Name", "Address", "Rating", "Reviews", "Website", "Phone"}

// minCells is the smallest row that is treated as a place.
const minCells = 2

// Parser extracts places from Markdown table text.
type Parser struct {
	// NewID generates record IDs. Defaults to uuid.NewString.
	NewID func() string
}

// NewParser creates a parser that assigns UUIDs to places.
func NewParser() *Parser {
	return &Parser{NewID: uuid.NewString}
}

// ParseTable parses text with a default parser.
func ParseTable(text string) []types.Place {
	return NewParser().Parse(text)
}

// Parse returns the places found after the first separator row, in source order.
// Text without a separator row yields an empty slice.
func (p *Parser) Parse(text string) []types.Place {
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if isSeparator(strings.TrimSpace(line)) {
			start = i + 1
			break
		}
	}

	places := []types.Place{}
	if start < 0 {
		return places
	}

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}

		cells := splitRow(trimmed)
		if len(cells) < minCells {
			continue
		}

		places = append(places, types.Place{
			ID:      newID(),
			Name:    cell(cells, 0),
			Address: cell(cells, 1),
			Rating:  cell(cells, 2),
			Reviews: cell(cells, 3),
			Website: cell(cells, 4),
			Phone:   cell(cells, 5),
		})
	}

	return places
}

// isSeparator reports whether a trimmed line is the header separator row.
func isSeparator(line string) bool {
	return strings.HasPrefix(line, "|") && strings.Contains(line, "---")
}

// splitRow splits a pipe-delimited row, dropping the segments before the
// leading pipe and after the trailing pipe.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil
	}
	parts = parts[1 : len(parts)-1]
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// cell returns column i, or "N/A" when the row is too short.
// Present but empty cells stay empty.
func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return types.NotAvailable
}
