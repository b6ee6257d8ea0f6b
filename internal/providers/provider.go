package providers

import (
	"context"
	"errors"
	"time"

	"github.com/jackzampolin/mapscrape/internal/types"
)

// ErrMissingCredential is returned before any network call when a provider
// has no API key configured.
var ErrMissingCredential = errors.New("API Key is missing. Please check your environment configuration.")

// Generator produces text for a prompt, optionally grounded by a maps tool.
type Generator interface {
	// Generate sends a single generation request. There is no retry.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// GenerateRequest is a request to a generation service.
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string

	// Model selection (uses client default if empty)
	Model string

	// EnableMaps asks the provider to attach its maps retrieval tool.
	// Providers without one ignore it.
	EnableMaps bool

	// Request tracking
	RequestID string
}

// GenerateResult is the response from a generation call.
type GenerateResult struct {
	Text      string           `json:"text"`
	Citations []types.Citation `json:"citations,omitempty"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
}
