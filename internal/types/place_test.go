package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery_String(t *testing.T) {
	q := SearchQuery{Category: " Coffee Shops ", Location: "Baku, Azerbaijan"}
	assert.Equal(t, "Coffee Shops in Baku, Azerbaijan", q.String())
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr bool
	}{
		{"valid", SearchQuery{Category: "Hotels", Location: "Paris"}, false},
		{"blank category", SearchQuery{Category: "  ", Location: "Paris"}, true},
		{"blank location", SearchQuery{Category: "Hotels"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyQuery)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCitation_URI(t *testing.T) {
	tests := []struct {
		name string
		c    Citation
		want string
	}{
		{
			"prefers maps",
			Citation{Web: &CitationSource{URI: "https://example.com"}, Maps: &CitationSource{URI: "https://maps.google.com/?cid=1"}},
			"https://maps.google.com/?cid=1",
		},
		{
			"falls back to web",
			Citation{Web: &CitationSource{URI: "https://example.com"}, Maps: &CitationSource{}},
			"https://example.com",
		},
		{"empty", Citation{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.URI())
		})
	}
}

func TestExtractionResult_Count(t *testing.T) {
	var r *ExtractionResult
	assert.Zero(t, r.Count(), "nil result")
	assert.Equal(t, 2, (&ExtractionResult{Places: []Place{{}, {}}}).Count())
}
