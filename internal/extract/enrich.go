package extract

import (
	"github.com/jackzampolin/mapscrape/internal/types"
)

// EnrichWithCitations attaches grounding URIs to places.
//
// A single cursor walks the citations across all places: each place takes the
// next citation that carries a URI, maps preferred over web. Once the
// citations run out the remaining places get no URL. The alignment between
// citations and rows is positional and best-effort.
//
// The input slice is not modified; order and length are preserved.
func EnrichWithCitations(places []types.Place, citations []types.Citation) []types.Place {
	out := make([]types.Place, len(places))
	copy(out, places)

	if len(out) == 0 || len(citations) == 0 {
		return out
	}

	next := 0
	for i := range out {
		for next < len(citations) {
			uri := citations[next].URI()
			next++
			if uri != "" {
				out[i].GoogleMapsURL = uri
				break
			}
		}
		if next >= len(citations) {
			break
		}
	}

	return out
}
