package providers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/jackzampolin/mapscrape/internal/types"
)

const (
	GeminiName         = "gemini"
	GeminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey     string
	Model      string        // "gemini-2.5-flash" (default)
	BaseURL    string        // Optional (tests)
	Timeout    time.Duration // HTTP timeout
	HTTPClient *http.Client  // Optional (tests)
}

// GeminiClient implements Generator using the Gemini API with Google Maps grounding.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client.
// The SDK client is created on first use so a missing key surfaces as
// ErrMissingCredential at request time.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = GeminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

func (c *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client
	return client, nil
}

// Generate sends a generateContent request with the Google Maps tool attached.
func (c *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	client, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.EnableMaps {
		config.Tools = []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}}
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Text:          resp.Text(),
		Citations:     citationsFromResponse(resp),
		ExecutionTime: time.Since(start),
		Provider:      GeminiName,
		ModelUsed:     model,
		RequestID:     requestID,
	}
	if resp.ModelVersion != "" {
		result.ModelUsed = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.PromptTokens = int(u.PromptTokenCount)
		result.CompletionTokens = int(u.CandidatesTokenCount)
		result.TotalTokens = int(u.TotalTokenCount)
	}

	return result, nil
}

// citationsFromResponse reads the grounding chunks of the first candidate.
func citationsFromResponse(resp *genai.GenerateContentResponse) []types.Citation {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil || len(meta.GroundingChunks) == 0 {
		return nil
	}

	citations := make([]types.Citation, 0, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		var c types.Citation
		if chunk != nil {
			if chunk.Web != nil {
				c.Web = &types.CitationSource{URI: chunk.Web.URI, Title: chunk.Web.Title}
			}
			if chunk.Maps != nil {
				c.Maps = &types.CitationSource{URI: chunk.Maps.URI, Title: chunk.Maps.Title}
			}
		}
		// Keep empty chunks so positional alignment with rows is preserved.
		citations = append(citations, c)
	}
	return citations
}

var _ Generator = (*GeminiClient)(nil)
