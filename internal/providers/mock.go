package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/mapscrape/internal/types"
)

const MockClientName = "mock"

// MockResponseText is the table returned by a default mock client.
const MockResponseText = `| Name | Address | Rating | Reviews | Website | Phone |
|------|---------|--------|---------|---------|-------|
| Mock Cafe | 1 Example St, Springfield | 4.6 | 212 | https://mockcafe.example | +1 555 0100 |
| Sample Roasters | 22 Test Ave, Springfield | 4.2 | 87 | N/A | +1 555 0101 |
| Placeholder Espresso | 3 Demo Rd, Springfield | 3.8 | 19 | https://placeholder.example | N/A |`

// MockClient is a Generator for tests and offline demos.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailMessage  string
	ResponseText string
	Citations    []types.Citation

	// Block, when set, holds each request until it is closed or ctx ends.
	Block chan struct{}

	// State
	requestCount atomic.Int64
	mu           sync.Mutex
	lastRequest  *GenerateRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      10 * time.Millisecond,
		ResponseText: MockResponseText,
		Citations: []types.Citation{
			{Maps: &types.CitationSource{URI: "https://maps.google.com/?cid=1001", Title: "Mock Cafe"}},
			{Maps: &types.CitationSource{URI: "https://maps.google.com/?cid=1002", Title: "Sample Roasters"}},
		},
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Generate returns the configured response.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	c.mu.Lock()
	reqCopy := *req
	c.lastRequest = &reqCopy
	c.mu.Unlock()

	if c.Block != nil {
		select {
		case <-c.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if c.ShouldFail {
		msg := c.FailMessage
		if msg == "" {
			msg = "mock client configured to fail"
		}
		return nil, errors.New(msg)
	}

	return &GenerateResult{
		Text:          c.ResponseText,
		Citations:     c.Citations,
		ExecutionTime: time.Since(start),
		Provider:      MockClientName,
		ModelUsed:     req.Model,
		RequestID:     fmt.Sprintf("mock-%d", count),
	}, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns a copy of the most recent request, or nil.
func (c *MockClient) LastRequest() *GenerateRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequest
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

// Verify interface
var _ Generator = (*MockClient)(nil)
