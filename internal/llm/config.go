// Package llm provides centralized LLM configuration, sessions and client abstractions.
// Every logical conversation opens its own Session; nothing is shared between requests
// except the underlying provider client.
package llm

import "github.com/google/generative-ai-go/genai"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap, short tasks such as answer evaluation
	TierLite ModelTier = "lite"
	// TierStandard is for question generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for longer, more careful generation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Generation holds sampling and output settings applied to every session.
type Generation struct {
	Temperature      float32
	TopP             float32
	TopK             int32
	MaxOutputTokens  int32
	ResponseMIMEType string
	// SafetyThreshold is applied to every harm category in SafetyCategories.
	SafetyThreshold genai.HarmBlockThreshold
}

// SafetyCategories are the harm categories a session configures.
var SafetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// Config holds the model configuration for the application
type Config struct {
	Provider   Provider
	Models     map[ModelTier]string
	Generation Generation
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Generation: DefaultGeneration(),
	}
}

// DefaultGeneration returns the sampling settings used for interview generation.
func DefaultGeneration() Generation {
	return Generation{
		Temperature:      1,
		TopP:             0.95,
		TopK:             40,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
		SafetyThreshold:  genai.HarmBlockMediumAndAbove,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:   c.Provider,
		Models:     make(map[ModelTier]string),
		Generation: c.Generation,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// applyTo configures model with the generation and safety settings.
func (g Generation) applyTo(model *genai.GenerativeModel) {
	model.SetTemperature(g.Temperature)
	model.SetTopP(g.TopP)
	model.SetTopK(g.TopK)
	model.SetMaxOutputTokens(g.MaxOutputTokens)
	if g.ResponseMIMEType != "" {
		model.ResponseMIMEType = g.ResponseMIMEType
	}

	threshold := g.SafetyThreshold
	if threshold == genai.HarmBlockUnspecified {
		threshold = genai.HarmBlockMediumAndAbove
	}
	model.SafetySettings = make([]*genai.SafetySetting, 0, len(SafetyCategories))
	for _, category := range SafetyCategories {
		model.SafetySettings = append(model.SafetySettings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
}
