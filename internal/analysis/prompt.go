package analysis

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a system designed to identify structural and visual changes in websites for testing purposes. You compare a base screenshot, a PR preview screenshot, and a diff image highlighting changed pixels in red.

Critical checks (perform these first):
1. Section presence: for each section described in the reference structure, explicitly check whether it is visually present in the PR image. A missing section is a CRITICAL issue. The reference structure is delimited by <<<>>>.
2. Structural changes: identify sections that moved, layout changes, and relocated UI components.
3. Visual hierarchy: verify that important elements keep their relative positioning and navigation stays accessible.

Non-critical changes (note but do not flag): text content updates, menu item text, headlines, product information, prices, and minor styling that does not affect layout. If a section animates or moves, report that and do not flag its diff pixels as a regression.

Enum vocabularies:
- status_enum: "pass", "fail", "warning", "none"
- critical_issues_enum: "none", "missing_sections", "other_issues"
- visual_changes_enum: "none", "minor", "significant"
- recommendation_enum: "pass", "review_required", "reject"
- each section status: "Present" or "Missing"

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble. Use this exact structure:
{
  "status_enum": "pass|fail|warning|none",
  "critical_issues": {
    "sections": [{"name": "Section Name", "status": "Present|Missing", "description": "..."}],
    "summary": "..."
  },
  "critical_issues_enum": "none|missing_sections|other_issues",
  "structural_analysis": {"section_order": "...", "layout": "...", "broken_layouts": "..."},
  "visual_changes": {"diff_highlights": ["..."], "animation_issues": "...", "conclusion": "..."},
  "visual_changes_enum": "none|minor|significant",
  "conclusion": {"critical_issues": "...", "visual_changes": "...", "recommendation": "...", "summary": "..."},
  "recommendation_enum": "pass|review_required|reject"
}`

// maxDescriptionLen bounds how much PR description reaches the oracle.
const maxDescriptionLen = 200

// SystemPrompt returns the system prompt for the vision oracle.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPRContextPart formats optional PR title/description context.
// Returns "" when neither is available.
func BuildPRContextPart(title, description string) string {
	if title == "" && description == "" {
		return ""
	}
	var parts []string
	if title != "" {
		parts = append(parts, "PR Title: "+title)
	}
	if description != "" {
		if len(description) > maxDescriptionLen {
			description = description[:maxDescriptionLen] + "..."
		}
		parts = append(parts, "PR Description: "+description)
	}
	return fmt.Sprintf(
		"Here is the context about this PR:\n\n%s\n\nUse this information to better understand the expected changes in the screenshots.",
		strings.Join(parts, " "))
}

// BuildSectionsPart wraps the reference structure text for the oracle.
// Returns "" when no structural description is available.
func BuildSectionsPart(sectionsAnalysis string) string {
	if strings.TrimSpace(sectionsAnalysis) == "" {
		return ""
	}
	return fmt.Sprintf(
		"Here is the structural analysis of the website's sections to guide your visual analysis<<<:\n\n%s>>>.\n\n"+
			"For each section listed above, explicitly check if it is present in the PR screenshot. "+
			"If any section is missing, list it by name and describe its expected location and content. "+
			"Focus the image diff analysis on sections that are not animating.",
		sectionsAnalysis)
}
