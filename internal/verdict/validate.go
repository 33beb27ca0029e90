package verdict

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Context carries the caller-supplied identity fields for a verdict.
// These are never trusted from the oracle's output.
type Context struct {
	URL        string
	PreviewURL string
	Repository string
	PRNumber   string
	UserID     string
}

// ResponseParseError reports oracle output that is not valid JSON.
// The raw text is kept for diagnostics.
type ResponseParseError struct {
	Raw string
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("oracle response is not valid JSON: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// IsParseError checks if an error is a ResponseParseError.
func IsParseError(err error) bool {
	_, ok := err.(*ResponseParseError)
	return ok
}

// rawVerdict is the JSON structure returned by the oracle.
type rawVerdict struct {
	StatusEnum         string             `json:"status_enum"`
	CriticalIssues     CriticalIssues     `json:"critical_issues"`
	CriticalIssuesEnum string             `json:"critical_issues_enum"`
	StructuralAnalysis StructuralAnalysis `json:"structural_analysis"`
	VisualChanges      VisualChanges      `json:"visual_changes"`
	VisualChangesEnum  string             `json:"visual_changes_enum"`
	Conclusion         Conclusion         `json:"conclusion"`
	RecommendationEnum string             `json:"recommendation_enum"`
}

// Parse decodes an oracle response into a Verdict with every enum field
// guaranteed to hold a member of its set. Unrecognized enum values are
// coerced to cautious defaults rather than rejected; undecodable text is a
// hard ResponseParseError because there is no partial structure to repair.
func Parse(content string, vctx Context) (*Verdict, error) {
	trimmed := stripCodeFences(content)

	var raw rawVerdict
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, &ResponseParseError{Raw: content, Err: err}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	v := &Verdict{
		ID:                 uuid.NewString(),
		URL:                vctx.URL,
		PreviewURL:         vctx.PreviewURL,
		Repository:         vctx.Repository,
		PRNumber:           vctx.PRNumber,
		Timestamp:          now,
		CreatedAt:          now,
		UserID:             vctx.UserID,
		CriticalIssues:     raw.CriticalIssues,
		StructuralAnalysis: raw.StructuralAnalysis,
		VisualChanges:      raw.VisualChanges,
		Conclusion:         raw.Conclusion,
	}
	if v.CriticalIssues.Sections == nil {
		v.CriticalIssues.Sections = []SectionInfo{}
	}
	if v.VisualChanges.DiffHighlights == nil {
		v.VisualChanges.DiffHighlights = []string{}
	}

	v.StatusEnum = repairStatus(raw.StatusEnum)
	v.Status = string(v.StatusEnum)
	v.noteRepair("status_enum", raw.StatusEnum, string(v.StatusEnum))

	v.CriticalIssuesEnum = repairCriticalIssues(raw.CriticalIssuesEnum)
	v.noteRepair("critical_issues_enum", raw.CriticalIssuesEnum, string(v.CriticalIssuesEnum))

	v.VisualChangesEnum = repairVisualChanges(raw.VisualChangesEnum)
	v.noteRepair("visual_changes_enum", raw.VisualChangesEnum, string(v.VisualChangesEnum))

	v.RecommendationEnum = repairRecommendation(raw.RecommendationEnum)
	v.noteRepair("recommendation_enum", raw.RecommendationEnum, string(v.RecommendationEnum))

	for i := range v.CriticalIssues.Sections {
		got := v.CriticalIssues.Sections[i].Status
		fixed := repairSectionStatus(got)
		v.CriticalIssues.Sections[i].Status = fixed
		v.noteRepair(fmt.Sprintf("critical_issues.sections[%d].status", i), got, fixed)
	}

	return v, nil
}

// noteRepair records a coerced enum field for later diagnostics.
func (v *Verdict) noteRepair(field, got, repaired string) {
	if got == repaired {
		return
	}
	v.Repairs = append(v.Repairs, fmt.Sprintf("%s: %q coerced to %q", field, got, repaired))
}

// repairStatus coerces an unknown status to warning so a malformed field
// degrades to a review-worthy state instead of crashing the run.
func repairStatus(s string) Status {
	switch Status(s) {
	case StatusPass, StatusFail, StatusWarning, StatusNone:
		return Status(s)
	default:
		return StatusWarning
	}
}

func repairCriticalIssues(s string) CriticalIssuesStatus {
	switch CriticalIssuesStatus(s) {
	case CriticalNone, CriticalMissingSections, CriticalOtherIssues:
		return CriticalIssuesStatus(s)
	default:
		return CriticalOtherIssues
	}
}

func repairVisualChanges(s string) VisualChangesStatus {
	switch VisualChangesStatus(s) {
	case VisualNone, VisualMinor, VisualSignificant:
		return VisualChangesStatus(s)
	default:
		return VisualMinor
	}
}

func repairRecommendation(s string) RecommendationStatus {
	switch RecommendationStatus(s) {
	case RecommendPass, RecommendReviewRequired, RecommendReject:
		return RecommendationStatus(s)
	default:
		return RecommendReviewRequired
	}
}

// repairSectionStatus defaults to Present: don't claim a section is missing
// unless the oracle explicitly said so.
func repairSectionStatus(s string) string {
	switch s {
	case SectionPresent, SectionMissing:
		return s
	default:
		return SectionPresent
	}
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	start := 1
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
