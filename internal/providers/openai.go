package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName = "openai"

	// GeminiOpenAIBaseURL is Gemini's OpenAI-compatible surface.
	GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// OpenAIConfig holds configuration for an OpenAI-compatible chat client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string        // Any OpenAI-compatible endpoint
	Timeout    time.Duration // HTTP timeout
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Generator against an OpenAI-compatible chat API.
// These endpoints have no maps tool, so results never carry citations.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  openai.Client
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = GeminiDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiOpenAIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// Single attempt: failures surface to the caller unchanged.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithBaseURL(cfg.BaseURL),
	)

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  client,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Generate sends a chat completion with a system and a user message.
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
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

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		ExecutionTime:    time.Since(start),
		Provider:         OpenAIName,
		ModelUsed:        model,
		RequestID:        requestID,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
	}
	if completion.Model != "" {
		result.ModelUsed = completion.Model
	}
	if len(completion.Choices) > 0 {
		result.Text = completion.Choices[0].Message.Content
	}

	return result, nil
}

var _ Generator = (*OpenAIClient)(nil)
