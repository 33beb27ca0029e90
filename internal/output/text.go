package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/bruniai/bruni/internal/verdict"
)

// TextWriter outputs a human-readable text report for the terminal.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	data := report.Data

	overall := verdict.Aggregate(pageStatuses(data))
	ew.printf("Bruni Visual Analysis — %s\n", strings.ToUpper(string(overall)))
	if data.TestData.Repository != "" {
		ew.printf("Repository: %s (PR #%s)\n", data.TestData.Repository, data.TestData.PRNumber)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Pages analyzed: %d\n", len(data.Reports))
	ew.println(strings.Repeat("─", 60))

	for i, page := range data.Reports {
		ew.printf("\n[%s] Page %d: %s\n", strings.ToUpper(string(page.Status)), i+1, page.PagePath)
		if page.URL != "" {
			ew.printf("  Base:    %s\n", page.URL)
		}
		if page.PreviewURL != "" {
			ew.printf("  Preview: %s\n", page.PreviewURL)
		}

		for _, s := range page.CriticalIssues.Sections {
			ew.printf("  Section %-20s %s\n", s.Name, s.Status)
		}
		if page.CriticalIssues.Summary != "" {
			for _, line := range wrapText(page.CriticalIssues.Summary, 70) {
				ew.printf("  %s\n", line)
			}
		}

		for _, h := range page.VisualChanges.DiffHighlights {
			ew.printf("  - %s\n", h)
		}
		if page.Conclusion.Summary != "" {
			for _, line := range wrapText(page.Conclusion.Summary, 70) {
				ew.printf("  %s\n", line)
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Overall: %s\n", overall)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
