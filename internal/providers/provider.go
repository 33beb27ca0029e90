package providers

import (
	"context"
	"fmt"
)

// ImageInput is one base64-encoded PNG handed to the oracle.
type ImageInput struct {
	Label  string
	Base64 string
}

// AnalysisRequest contains the prompts and screenshots sent to a vision model.
// UserParts are sent as separate user text blocks ahead of the images.
type AnalysisRequest struct {
	SystemPrompt string
	UserParts    []string
	Images       []ImageInput
	MaxTokens    int
	Temperature  float64
}

// AnalysisResponse contains the raw response from a vision model.
type AnalysisResponse struct {
	Content    string
	TokensUsed int
}

// Analyzer is the vision oracle abstraction.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
	Name() string
}

// New creates a provider by name. maxRetries bounds retry attempts for
// rate-limit and server errors; zero selects the default.
func New(provider, model string, maxRetries int) (Analyzer, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model, maxRetries)
	case "anthropic":
		return NewAnthropic(model, maxRetries)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
