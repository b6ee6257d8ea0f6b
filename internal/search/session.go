package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jackzampolin/mapscrape/internal/metrics"
	"github.com/jackzampolin/mapscrape/internal/types"
)

// State is the session's request state.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
)

// Status mirrors what a UI shows for the current search.
type Status struct {
	State    State  `json:"state"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
	Complete bool   `json:"complete"`
	Message  string `json:"message,omitempty"`
}

const errAborted = "search aborted"

// Session holds one in-memory result and enforces a single search at a time.
// idle -> requesting -> (success | failure) -> idle
type Session struct {
	searcher Searcher
	metrics  *metrics.Recorder
	logger   *slog.Logger

	mu     sync.RWMutex
	state  State
	status Status
	result *types.ExtractionResult
}

// NewSession creates an idle session backed by searcher.
func NewSession(searcher Searcher, recorder *metrics.Recorder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		searcher: searcher,
		metrics:  recorder,
		logger:   logger,
		state:    StateIdle,
		status:   Status{State: StateIdle},
	}
}

// Search runs a search, replacing any previous result.
// Returns ErrBusy without side effects if a search is already running.
func (s *Session) Search(ctx context.Context, q types.SearchQuery, provider string) (*types.ExtractionResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state == StateRequesting {
		s.mu.Unlock()
		s.logger.Warn("search rejected, another search is in flight", "query", q.String())
		s.metrics.RecordSearch(provider, metrics.OutcomeBusy, 0, 0)
		return nil, ErrBusy
	}
	s.state = StateRequesting
	s.status = Status{State: StateRequesting, Loading: true}
	s.result = nil
	s.mu.Unlock()

	var (
		result   *types.ExtractionResult
		err      error
		returned bool
	)
	// The reset to idle is deferred so a panicking searcher cannot leave
	// the session busy; the panic keeps unwinding.
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state = StateIdle
		switch {
		case !returned:
			s.status = Status{State: StateIdle, Error: errAborted}
		case err != nil:
			s.status = Status{State: StateIdle, Error: err.Error()}
		default:
			s.result = result
			s.status = Status{State: StateIdle, Complete: true}
			if result.Count() == 0 {
				s.status.Message = NoDataMessage
			}
		}
	}()

	result, err = s.searcher.Search(ctx, q, provider)
	returned = true
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Result returns the current result, or nil if none is held.
func (s *Session) Result() *types.ExtractionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Busy reports whether a search is in flight.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateRequesting
}

var _ Searcher = (*Session)(nil)
