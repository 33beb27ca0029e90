package output

import (
	"io"
	"strings"

	"github.com/bruniai/bruni/internal/verdict"
)

// attributionLink is the branding target in the "analyzed by" line.
const attributionLink = "[bruniai](https://www.brunivisual.com/)"

// MarkdownWriter outputs a PR-comment-friendly markdown report.
//
// Rendering is a pure function of the report data: the same input always
// produces byte-identical markdown. The comment publisher relies on this
// to recognize its own previously-posted comment by prefix.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	data := report.Data

	if len(data.Reports) == 1 {
		page := data.Reports[0]
		m.writeHeader(ew, page.Status, 1, report.ArtifactURL)
		m.writePageBody(ew, page, report.References[page.PagePath])
		return ew.err
	}

	overall := verdict.Aggregate(pageStatuses(data))
	m.writeHeader(ew, overall, len(data.Reports), report.ArtifactURL)

	// Per-page summary table
	ew.printf("| Page | Status |\n")
	ew.printf("|------|--------|\n")
	for _, page := range data.Reports {
		ew.printf("| %s | %s %s |\n", page.PagePath, statusIcon(page.Status), titleStatus(page.Status))
	}
	ew.printf("\n")

	// Full detail per page, collapsed
	for i, page := range data.Reports {
		ew.printf("<details>\n<summary>%s Page %d: %s (%s)</summary>\n\n",
			statusIcon(page.Status), i+1, page.PagePath, page.Status)
		ew.printf("## %s %s\n\n", statusIcon(page.Status), titleStatus(page.Status))
		ew.printf("1 page(s) analyzed by %s\n\n", attributionLink)
		ew.printf("---\n\n")
		m.writePageBody(ew, page, report.References[page.PagePath])
		ew.printf("</details>\n\n")
	}

	return ew.err
}

func (m *MarkdownWriter) writeHeader(ew *errWriter, status verdict.Status, pages int, artifactURL string) {
	ew.printf("## %s %s\n\n", statusIcon(status), titleStatus(status))
	ew.printf("%d page(s) analyzed by %s\n\n", pages, attributionLink)
	if artifactURL != "" {
		ew.printf("[View Artifacts](%s)\n\n", artifactURL)
	}
	ew.printf("---\n\n")
}

func (m *MarkdownWriter) writePageBody(ew *errWriter, page verdict.PageReport, reference string) {
	// Critical sections table
	if len(page.CriticalIssues.Sections) > 0 || page.CriticalIssues.Summary != "" {
		ew.printf("### Critical Sections Check\n\n")
		if len(page.CriticalIssues.Sections) > 0 {
			ew.printf("| Section | Status |\n")
			ew.printf("|---------|--------|\n")
			for _, s := range page.CriticalIssues.Sections {
				ew.printf("| %s | %s |\n", s.Name, sectionIcon(s.Status))
			}
			ew.printf("\n")
		}
		if page.CriticalIssues.Summary != "" {
			ew.printf("%s\n\n", page.CriticalIssues.Summary)
		}
	}

	// Visual changes
	vc := page.VisualChanges
	if len(vc.DiffHighlights) > 0 || vc.AnimationIssues != "" || vc.Conclusion != "" {
		ew.printf("### Visual Changes\n\n")
		for _, h := range vc.DiffHighlights {
			ew.printf("- %s\n", h)
		}
		if vc.AnimationIssues != "" {
			ew.printf("- Animations: %s\n", vc.AnimationIssues)
		}
		if vc.Conclusion != "" {
			ew.printf("- Conclusion: %s\n", vc.Conclusion)
		}
		ew.printf("\n")
	}

	// Structure
	sa := page.StructuralAnalysis
	if sa.SectionOrder != "" || sa.Layout != "" || sa.BrokenLayouts != "" {
		ew.printf("### Structure\n\n")
		if sa.SectionOrder != "" {
			ew.printf("- Section order: %s\n", sa.SectionOrder)
		}
		if sa.Layout != "" {
			ew.printf("- Layout: %s\n", sa.Layout)
		}
		if sa.BrokenLayouts != "" {
			ew.printf("- Broken layouts: %s\n", sa.BrokenLayouts)
		}
		ew.printf("\n")
	}

	if reference != "" {
		ew.printf("<details>\n<summary>Reference Structure</summary>\n\n")
		ew.printf("%s\n\n", reference)
		ew.printf("</details>\n\n")
	}
}

func pageStatuses(data *verdict.MultiPageReportData) []verdict.Status {
	statuses := make([]verdict.Status, len(data.Reports))
	for i, r := range data.Reports {
		statuses[i] = r.Status
	}
	return statuses
}

func statusIcon(s verdict.Status) string {
	switch s {
	case verdict.StatusPass:
		return "✅"
	case verdict.StatusWarning:
		return "⚠️"
	case verdict.StatusFail:
		return "❌"
	default:
		return "❓"
	}
}

func titleStatus(s verdict.Status) string {
	str := string(s)
	if str == "" {
		return "None"
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

func sectionIcon(status string) string {
	if status == verdict.SectionPresent {
		return "✅"
	}
	return "❌"
}
