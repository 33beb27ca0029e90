package report

import (
	"time"

	"github.com/bruniai/bruni/internal/imaging"
	"github.com/bruniai/bruni/internal/verdict"
)

// ImagePaths locates the screenshot artifacts for one page. Section pairs
// are keyed by section id.
type ImagePaths struct {
	Base     string
	PR       string
	Diff     string
	Sections map[string]SectionPaths
}

// SectionPaths is a base/PR screenshot path pair for one section.
type SectionPaths struct {
	Base string
	PR   string
}

// PageResult is one analyzed page waiting to be folded into a multi-page
// report.
type PageResult struct {
	PagePath string
	Verdict  *verdict.Verdict
	Images   *ImagePaths
}

// BuildMultiPage folds independently analyzed pages into one
// MultiPageReportData. Report order follows input order; downstream display
// depends on it. Screenshots referenced by each page are base64-encoded
// here so raw bytes never cross the transport boundary.
func BuildMultiPage(prNumber, repository string, pages []PageResult) (*verdict.MultiPageReportData, error) {
	data := &verdict.MultiPageReportData{
		TestData: verdict.TestData{
			PRNumber:   prNumber,
			Repository: repository,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		},
		Reports: make([]verdict.PageReport, 0, len(pages)),
	}

	for _, page := range pages {
		v := page.Verdict
		pr := verdict.PageReport{
			PagePath:           page.PagePath,
			URL:                v.URL,
			PreviewURL:         v.PreviewURL,
			Status:             verdict.Resolve(v),
			CriticalIssues:     v.CriticalIssues,
			StructuralAnalysis: v.StructuralAnalysis,
			VisualChanges:      v.VisualChanges,
			Conclusion:         v.Conclusion,
		}

		if page.Images != nil {
			refs, err := encodeImageRefs(page.Images)
			if err != nil {
				return nil, err
			}
			pr.ImageRefs = refs
		} else if v.ImageRefs != nil {
			pr.ImageRefs = v.ImageRefs
		}

		data.Reports = append(data.Reports, pr)
	}

	return data, nil
}

func encodeImageRefs(paths *ImagePaths) (*verdict.ImageRefs, error) {
	refs := &verdict.ImageRefs{}

	var err error
	if paths.Base != "" {
		if refs.Base, err = imaging.EncodeBase64(paths.Base); err != nil {
			return nil, err
		}
	}
	if paths.PR != "" {
		if refs.PR, err = imaging.EncodeBase64(paths.PR); err != nil {
			return nil, err
		}
	}
	if paths.Diff != "" {
		if refs.Diff, err = imaging.EncodeBase64(paths.Diff); err != nil {
			return nil, err
		}
	}
	if len(paths.Sections) > 0 {
		refs.Sections = make(map[string]verdict.SectionPair, len(paths.Sections))
		for id, pair := range paths.Sections {
			base, err := imaging.EncodeBase64(pair.Base)
			if err != nil {
				return nil, err
			}
			pr, err := imaging.EncodeBase64(pair.PR)
			if err != nil {
				return nil, err
			}
			refs.Sections[id] = verdict.SectionPair{Base: base, PR: pr}
		}
	}
	return refs, nil
}

// Statuses extracts the per-page statuses from a multi-page report,
// in report order.
func Statuses(data *verdict.MultiPageReportData) []verdict.Status {
	statuses := make([]verdict.Status, len(data.Reports))
	for i, r := range data.Reports {
		statuses[i] = r.Status
	}
	return statuses
}
