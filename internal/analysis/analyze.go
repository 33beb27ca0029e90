package analysis

import (
	"context"
	"fmt"

	"github.com/bruniai/bruni/internal/cache"
	"github.com/bruniai/bruni/internal/imaging"
	"github.com/bruniai/bruni/internal/providers"
	"github.com/bruniai/bruni/internal/verdict"
)

// Input describes one page comparison handed to the oracle.
type Input struct {
	BaseScreenshot string
	PRScreenshot   string
	DiffImage      string

	SectionsAnalysis string
	PRTitle          string
	PRDescription    string

	Context verdict.Context
}

// PageAnalyzer runs the vision oracle over a page's screenshot pair and
// turns the response into a validated Verdict. The rate limiter serializes
// oracle calls globally across the run.
type PageAnalyzer struct {
	Provider providers.Analyzer
	Limiter  *providers.RateLimiter
	Cache    *cache.Cache
	// AllowFreeText enables the legacy phrase-scanning fallback when the
	// oracle returns unstructured text.
	AllowFreeText bool
	Model         string
	MaxTokens     int
}

// Analyze encodes the padded screenshots and diff mask, queries the oracle,
// and validates the result. The raw oracle response is cached keyed by the
// encoded image pair so re-runs of unchanged pages skip the oracle.
func (a *PageAnalyzer) Analyze(ctx context.Context, in Input) (*verdict.Verdict, error) {
	baseB64, err := imaging.EncodeBase64(in.BaseScreenshot)
	if err != nil {
		return nil, err
	}
	prB64, err := imaging.EncodeBase64(in.PRScreenshot)
	if err != nil {
		return nil, err
	}
	diffB64, err := imaging.EncodeBase64(in.DiffImage)
	if err != nil {
		return nil, err
	}

	content, err := a.oracleResponse(ctx, in, baseB64, prB64, diffB64)
	if err != nil {
		return nil, err
	}

	return verdict.Classify(content, in.Context, a.AllowFreeText)
}

func (a *PageAnalyzer) oracleResponse(ctx context.Context, in Input, baseB64, prB64, diffB64 string) (string, error) {
	var key string
	if a.Cache != nil {
		key = cache.BuildCacheKey(a.Provider.Name(), a.Model, baseB64, prB64)
		if cached, ok := a.Cache.Get(key); ok {
			return cached, nil
		}
	}

	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	req := providers.AnalysisRequest{
		SystemPrompt: SystemPrompt(),
		MaxTokens:    a.MaxTokens,
		Temperature:  0.2,
		Images: []providers.ImageInput{
			{Label: "Base Image", Base64: baseB64},
			{Label: "PR Image", Base64: prB64},
			{Label: "Diff Image", Base64: diffB64},
		},
	}
	if part := BuildPRContextPart(in.PRTitle, in.PRDescription); part != "" {
		req.UserParts = append(req.UserParts, part)
	}
	if part := BuildSectionsPart(in.SectionsAnalysis); part != "" {
		req.UserParts = append(req.UserParts, part)
	}

	resp, err := a.Provider.Analyze(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision analysis: %w", err)
	}

	if a.Cache != nil {
		// A failed cache write only costs a future oracle call.
		_ = a.Cache.Put(key, resp.Content)
	}
	return resp.Content, nil
}
