package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// StartSession opens a new conversation on the model for tier
	StartSession(tier ModelTier) Session
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Session is a single multi-turn conversation. A session is not safe for
// concurrent use; open one per request.
type Session interface {
	// SendMessage sends prompt and returns the text of the reply
	SendMessage(ctx context.Context, prompt string) (string, error)
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// StartSession opens a chat on the tier's model with the configured generation and safety settings.
func (c *GeminiClient) StartSession(tier ModelTier) Session {
	modelName := c.config.GetModel(tier)
	model := c.client.GenerativeModel(modelName)
	c.config.Generation.applyTo(model)

	return &GeminiSession{
		chat:  model.StartChat(),
		model: modelName,
	}
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GeminiSession is a Session backed by a Gemini chat.
type GeminiSession struct {
	chat  *genai.ChatSession
	model string
}

// SendMessage sends prompt as the next user turn.
func (s *GeminiSession) SendMessage(ctx context.Context, prompt string) (string, error) {
	if s.model == "" {
		return "", &CallError{Message: "no model configured"}
	}

	// the chat records the user turn before calling; drop it again on failure
	// so a retried send does not duplicate it
	n := len(s.chat.History)
	resp, err := s.chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		if len(s.chat.History) > n {
			s.chat.History = s.chat.History[:n]
		}
		return "", newCallError(s.model, err)
	}

	return extractTextFromResponse(resp)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason %s)", candidate.FinishReason)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
