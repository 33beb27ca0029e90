package verdict

// Status is the overall machine verdict for a page.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
	StatusNone    Status = "none"
)

// StatusRank returns a numeric rank for aggregation (higher = more severe).
func StatusRank(s Status) int {
	switch s {
	case StatusFail:
		return 3
	case StatusWarning:
		return 2
	case StatusPass:
		return 1
	default:
		return 0
	}
}

// CriticalIssuesStatus classifies critical findings on a page.
type CriticalIssuesStatus string

const (
	CriticalNone            CriticalIssuesStatus = "none"
	CriticalMissingSections CriticalIssuesStatus = "missing_sections"
	CriticalOtherIssues     CriticalIssuesStatus = "other_issues"
)

// VisualChangesStatus classifies the magnitude of visual changes.
type VisualChangesStatus string

const (
	VisualNone        VisualChangesStatus = "none"
	VisualMinor       VisualChangesStatus = "minor"
	VisualSignificant VisualChangesStatus = "significant"
)

// RecommendationStatus is the oracle's recommendation for the PR.
type RecommendationStatus string

const (
	RecommendPass           RecommendationStatus = "pass"
	RecommendReviewRequired RecommendationStatus = "review_required"
	RecommendReject         RecommendationStatus = "reject"
)

// Section presence values used inside CriticalIssues.
const (
	SectionPresent = "Present"
	SectionMissing = "Missing"
)

// SectionInfo describes one checked page section.
type SectionInfo struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// CriticalIssues holds the per-section presence check and its summary.
type CriticalIssues struct {
	Sections []SectionInfo `json:"sections"`
	Summary  string        `json:"summary"`
}

// StructuralAnalysis holds free-text structural findings.
type StructuralAnalysis struct {
	SectionOrder  string `json:"section_order"`
	Layout        string `json:"layout"`
	BrokenLayouts string `json:"broken_layouts"`
}

// VisualChanges holds free-text visual findings.
type VisualChanges struct {
	DiffHighlights  []string `json:"diff_highlights"`
	AnimationIssues string   `json:"animation_issues"`
	Conclusion      string   `json:"conclusion"`
}

// Conclusion is the oracle's closing assessment.
type Conclusion struct {
	CriticalIssues string `json:"critical_issues"`
	VisualChanges  string `json:"visual_changes"`
	Recommendation string `json:"recommendation"`
	Summary        string `json:"summary"`
}

// ImageRefs carries base64-encoded screenshots for transport.
// Section pairs are keyed by section id.
type ImageRefs struct {
	Base     string                 `json:"base,omitempty"`
	PR       string                 `json:"pr,omitempty"`
	Diff     string                 `json:"diff,omitempty"`
	Sections map[string]SectionPair `json:"sections,omitempty"`
}

// SectionPair is a base/PR screenshot pair for one section.
type SectionPair struct {
	Base string `json:"base"`
	PR   string `json:"pr"`
}

// Verdict is the structured result of analyzing one page.
type Verdict struct {
	ID         string `json:"id,omitempty"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
	Repository string `json:"repository"`
	PRNumber   string `json:"pr_number"`
	Timestamp  string `json:"timestamp"`

	// Status mirrors StatusEnum as free text for older report consumers.
	Status     string `json:"status"`
	StatusEnum Status `json:"status_enum"`

	CriticalIssues     CriticalIssues       `json:"critical_issues"`
	CriticalIssuesEnum CriticalIssuesStatus `json:"critical_issues_enum"`
	StructuralAnalysis StructuralAnalysis   `json:"structural_analysis"`
	VisualChanges      VisualChanges        `json:"visual_changes"`
	VisualChangesEnum  VisualChangesStatus  `json:"visual_changes_enum"`
	Conclusion         Conclusion           `json:"conclusion"`
	RecommendationEnum RecommendationStatus `json:"recommendation_enum"`

	ImageRefs *ImageRefs `json:"image_refs,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UserID    string `json:"user_id,omitempty"`

	// Repairs lists enum fields whose oracle value was outside its set
	// and got coerced to a default. Diagnostic only, never serialized.
	Repairs []string `json:"-"`
}

// PageReport is a Verdict scoped to one page in a multi-page run.
type PageReport struct {
	PagePath   string `json:"page_path"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
	Status     Status `json:"status"`

	CriticalIssues     CriticalIssues     `json:"critical_issues"`
	StructuralAnalysis StructuralAnalysis `json:"structural_analysis"`
	VisualChanges      VisualChanges      `json:"visual_changes"`
	Conclusion         Conclusion         `json:"conclusion"`

	ImageRefs *ImageRefs `json:"image_refs,omitempty"`
}

// TestData identifies the PR a multi-page run belongs to.
type TestData struct {
	PRNumber   string `json:"pr_number"`
	Repository string `json:"repository"`
	Timestamp  string `json:"timestamp"`
}

// MultiPageReportData is the full result of a multi-page run.
// Report order matches analysis order and is significant downstream.
type MultiPageReportData struct {
	TestData TestData     `json:"test_data"`
	Reports  []PageReport `json:"reports"`
}
