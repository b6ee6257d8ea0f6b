package search

import (
	"errors"

	"github.com/jackzampolin/mapscrape/internal/providers"
)

var (
	// ErrBusy is returned when a search is submitted while another is in flight.
	ErrBusy = errors.New("a search is already in progress")

	// ErrNoProvider is returned when no generator is registered under the requested name.
	ErrNoProvider = errors.New("no generation provider configured")
)

// NoDataMessage is reported when a search completes with zero places.
const NoDataMessage = "No business data found. Try refining the location or category."

// UpstreamError wraps a failure reported by the generation service.
// Its message is the upstream message, unchanged.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return "Failed to fetch data from " + e.Provider + "."
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a configuration problem detected
// before any request was sent.
func IsConfigError(err error) bool {
	return errors.Is(err, providers.ErrMissingCredential) || errors.Is(err, ErrNoProvider)
}

// IsUpstreamError reports whether err came from the generation service.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
