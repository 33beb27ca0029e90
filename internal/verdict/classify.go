package verdict

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FromFreeText builds a Verdict from an unstructured oracle response by
// scanning for the legacy phrase markers. Kept for backward compatibility
// with oracles that predate the structured JSON contract.
func FromFreeText(text string, vctx Context) *Verdict {
	now := time.Now().UTC().Format(time.RFC3339)
	v := &Verdict{
		ID:         uuid.NewString(),
		URL:        vctx.URL,
		PreviewURL: vctx.PreviewURL,
		Repository: vctx.Repository,
		PRNumber:   vctx.PRNumber,
		Timestamp:  now,
		CreatedAt:  now,
		UserID:     vctx.UserID,
		CriticalIssues: CriticalIssues{
			Sections: []SectionInfo{},
		},
		VisualChanges: VisualChanges{
			DiffHighlights: []string{},
		},
		CriticalIssuesEnum: CriticalNone,
		VisualChangesEnum:  VisualNone,
		RecommendationEnum: RecommendPass,
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "missing sections") {
		v.CriticalIssuesEnum = CriticalMissingSections
	}
	if strings.Contains(lower, "significant changes") {
		v.VisualChangesEnum = VisualSignificant
		v.RecommendationEnum = RecommendReviewRequired
	} else if strings.Contains(lower, "minor changes") {
		v.VisualChangesEnum = VisualMinor
	}

	v.Conclusion.Summary = text
	v.StatusEnum = Resolve(v)
	v.Status = string(v.StatusEnum)
	return v
}

// Classify produces a Verdict from either a structured or free-text oracle
// response. The strategy is selected by the shape of the response: valid
// JSON takes the structured path, anything that fails to decode falls back
// to phrase scanning when fallback is enabled.
func Classify(content string, vctx Context, allowFreeText bool) (*Verdict, error) {
	v, err := Parse(content, vctx)
	if err == nil {
		return v, nil
	}
	if allowFreeText && IsParseError(err) {
		return FromFreeText(content, vctx), nil
	}
	return nil, err
}
