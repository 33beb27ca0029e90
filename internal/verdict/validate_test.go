package verdict

import (
	"strings"
	"testing"
)

var testCtx = Context{
	URL:        "https://example.com",
	PreviewURL: "https://preview.example.com",
	Repository: "org/repo",
	PRNumber:   "123",
	UserID:     "user-1",
}

const sampleResponse = `{
	"status_enum": "pass",
	"critical_issues": {
		"sections": [
			{"name": "Header", "status": "Present", "description": "Header intact"}
		],
		"summary": "No critical issues found"
	},
	"critical_issues_enum": "none",
	"structural_analysis": {
		"section_order": "Unchanged",
		"layout": "Consistent",
		"broken_layouts": "None"
	},
	"visual_changes": {
		"diff_highlights": ["Minor text update in header"],
		"animation_issues": "",
		"conclusion": "Acceptable"
	},
	"visual_changes_enum": "minor",
	"conclusion": {
		"critical_issues": "None",
		"visual_changes": "Minor only",
		"recommendation": "pass",
		"summary": "Changes are acceptable"
	},
	"recommendation_enum": "pass"
}`

func TestParse(t *testing.T) {
	v, err := Parse(sampleResponse, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if v.ID == "" {
		t.Error("Expected generated ID")
	}
	if v.Timestamp == "" || v.CreatedAt == "" {
		t.Error("Expected generated timestamps")
	}
	if v.URL != testCtx.URL || v.PreviewURL != testCtx.PreviewURL {
		t.Errorf("Context URLs not applied: %q %q", v.URL, v.PreviewURL)
	}
	if v.Repository != "org/repo" || v.PRNumber != "123" || v.UserID != "user-1" {
		t.Error("Context identity fields not applied")
	}
	if v.StatusEnum != StatusPass || v.Status != "pass" {
		t.Errorf("StatusEnum = %q, Status = %q", v.StatusEnum, v.Status)
	}
	if v.VisualChangesEnum != VisualMinor {
		t.Errorf("VisualChangesEnum = %q", v.VisualChangesEnum)
	}
	if len(v.CriticalIssues.Sections) != 1 || v.CriticalIssues.Sections[0].Name != "Header" {
		t.Errorf("Sections = %+v", v.CriticalIssues.Sections)
	}
}

func TestParse_CodeFenced(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	v, err := Parse(fenced, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if v.StatusEnum != StatusPass {
		t.Errorf("StatusEnum = %q", v.StatusEnum)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse("invalid json", testCtx)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	perr, ok := err.(*ResponseParseError)
	if !ok {
		t.Fatalf("Expected *ResponseParseError, got %T", err)
	}
	if perr.Raw != "invalid json" {
		t.Errorf("Raw = %q", perr.Raw)
	}
	if !IsParseError(err) {
		t.Error("IsParseError = false")
	}
}

func TestParse_EnumRepair(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		check func(t *testing.T, v *Verdict)
	}{
		{
			"invalid status", "status_enum", "banana",
			func(t *testing.T, v *Verdict) {
				if v.StatusEnum != StatusWarning {
					t.Errorf("StatusEnum = %q, want warning", v.StatusEnum)
				}
				if v.Status != "warning" {
					t.Errorf("Status = %q, want warning", v.Status)
				}
			},
		},
		{
			"invalid critical issues", "critical_issues_enum", "everything_broken",
			func(t *testing.T, v *Verdict) {
				if v.CriticalIssuesEnum != CriticalOtherIssues {
					t.Errorf("CriticalIssuesEnum = %q, want other_issues", v.CriticalIssuesEnum)
				}
			},
		},
		{
			"invalid visual changes", "visual_changes_enum", "huge",
			func(t *testing.T, v *Verdict) {
				if v.VisualChangesEnum != VisualMinor {
					t.Errorf("VisualChangesEnum = %q, want minor", v.VisualChangesEnum)
				}
			},
		},
		{
			"invalid recommendation", "recommendation_enum", "ship_it",
			func(t *testing.T, v *Verdict) {
				if v.RecommendationEnum != RecommendReviewRequired {
					t.Errorf("RecommendationEnum = %q, want review_required", v.RecommendationEnum)
				}
			},
		},
		{
			"empty enums", "status_enum", "",
			func(t *testing.T, v *Verdict) {
				if v.StatusEnum != StatusWarning {
					t.Errorf("empty StatusEnum = %q, want warning", v.StatusEnum)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.Replace(sampleResponse, `"`+tt.field+`": "`+originalValue(tt.field)+`"`,
				`"`+tt.field+`": "`+tt.value+`"`, 1)
			if raw == sampleResponse && tt.value != "" {
				t.Fatalf("field %s not substituted", tt.field)
			}
			v, err := Parse(raw, testCtx)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			tt.check(t, v)
		})
	}
}

func originalValue(field string) string {
	switch field {
	case "status_enum":
		return "pass"
	case "critical_issues_enum":
		return "none"
	case "visual_changes_enum":
		return "minor"
	case "recommendation_enum":
		return "pass"
	}
	return ""
}

func TestParse_SectionStatusRepair(t *testing.T) {
	raw := strings.Replace(sampleResponse, `"status": "Present"`, `"status": "maybe"`, 1)
	v, err := Parse(raw, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := v.CriticalIssues.Sections[0].Status; got != SectionPresent {
		t.Errorf("section status = %q, want Present", got)
	}

	raw = strings.Replace(sampleResponse, `"status": "Present"`, `"status": "Missing"`, 1)
	v, err = Parse(raw, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := v.CriticalIssues.Sections[0].Status; got != SectionMissing {
		t.Errorf("section status = %q, want Missing", got)
	}
}

func TestParse_RecordsRepairs(t *testing.T) {
	v, err := Parse(sampleResponse, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(v.Repairs) != 0 {
		t.Errorf("valid enums produced repairs: %v", v.Repairs)
	}

	raw := strings.Replace(sampleResponse, `"status_enum": "pass"`, `"status_enum": "banana"`, 1)
	raw = strings.Replace(raw, `"status": "Present"`, `"status": "maybe"`, 1)
	v, err = Parse(raw, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(v.Repairs) != 2 {
		t.Fatalf("Repairs = %v, want 2 entries", v.Repairs)
	}
	if !strings.Contains(v.Repairs[0], "status_enum") || !strings.Contains(v.Repairs[0], `"banana"`) {
		t.Errorf("Repairs[0] = %q", v.Repairs[0])
	}
	if !strings.Contains(v.Repairs[1], "critical_issues.sections[0].status") {
		t.Errorf("Repairs[1] = %q", v.Repairs[1])
	}
}

func TestParse_MissingFieldsGetDefaults(t *testing.T) {
	v, err := Parse(`{}`, testCtx)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if v.CriticalIssues.Sections == nil {
		t.Error("Sections should be empty slice, not nil")
	}
	if v.VisualChanges.DiffHighlights == nil {
		t.Error("DiffHighlights should be empty slice, not nil")
	}
	// Absent enums repair to their cautious defaults.
	if v.StatusEnum != StatusWarning {
		t.Errorf("StatusEnum = %q", v.StatusEnum)
	}
	if v.CriticalIssuesEnum != CriticalOtherIssues {
		t.Errorf("CriticalIssuesEnum = %q", v.CriticalIssuesEnum)
	}
	if v.VisualChangesEnum != VisualMinor {
		t.Errorf("VisualChangesEnum = %q", v.VisualChangesEnum)
	}
	if v.RecommendationEnum != RecommendReviewRequired {
		t.Errorf("RecommendationEnum = %q", v.RecommendationEnum)
	}
}
