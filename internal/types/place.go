// Package types provides shared types used across multiple packages.
// This package has no dependencies on other mapscrape packages to avoid import cycles.
package types

import (
	"errors"
	"strings"
	"time"
)

// NotAvailable is the placeholder for a column missing from a table row.
const NotAvailable = "N/A"

// Place is one business extracted from a generated table.
// Every textual field is always populated; GoogleMapsURL is only set by
// citation enrichment.
type Place struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Rating        string `json:"rating"`
	Reviews       string `json:"reviews"`
	Website       string `json:"website"`
	Phone         string `json:"phone"`
	GoogleMapsURL string `json:"google_maps_url,omitempty"`
}

// Fields returns the six textual fields in table column order.
func (p Place) Fields() []string {
	return []string{p.Name, p.Address, p.Rating, p.Reviews, p.Website, p.Phone}
}

// ExtractionResult is the outcome of a single search.
// Each new search replaces the previous result entirely.
type ExtractionResult struct {
	Places    []Place   `json:"places"`
	Text      string    `json:"text"`
	Query     string    `json:"query"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Count returns the number of extracted places.
func (r *ExtractionResult) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Places)
}

// SearchQuery is the user input that drives one search.
type SearchQuery struct {
	Category string `json:"category"`
	Location string `json:"location"`
}

// ErrEmptyQuery is returned when the category or location is blank.
var ErrEmptyQuery = errors.New("category and location are required")

// Validate rejects blank categories or locations.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Category) == "" || strings.TrimSpace(q.Location) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// String renders the query as "<category> in <location>".
func (q SearchQuery) String() string {
	return strings.TrimSpace(q.Category) + " in " + strings.TrimSpace(q.Location)
}
