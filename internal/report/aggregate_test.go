package report

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/bruniai/bruni/internal/verdict"
)

func sampleVerdict(pagePath string, critical verdict.CriticalIssuesStatus) *verdict.Verdict {
	return &verdict.Verdict{
		URL:                "https://example.com" + pagePath,
		PreviewURL:         "https://preview.example.com" + pagePath,
		Repository:         "org/repo",
		PRNumber:           "123",
		CriticalIssuesEnum: critical,
		VisualChangesEnum:  verdict.VisualNone,
		RecommendationEnum: verdict.RecommendPass,
		CriticalIssues:     verdict.CriticalIssues{Sections: []verdict.SectionInfo{}},
		VisualChanges:      verdict.VisualChanges{DiffHighlights: []string{}},
	}
}

func TestBuildMultiPage_PreservesOrder(t *testing.T) {
	pages := []PageResult{
		{PagePath: "/", Verdict: sampleVerdict("/", verdict.CriticalNone)},
		{PagePath: "/about", Verdict: sampleVerdict("/about", verdict.CriticalNone)},
		{PagePath: "/contact", Verdict: sampleVerdict("/contact", verdict.CriticalNone)},
	}

	data, err := BuildMultiPage("123", "org/repo", pages)
	if err != nil {
		t.Fatalf("BuildMultiPage error: %v", err)
	}

	if data.TestData.PRNumber != "123" || data.TestData.Repository != "org/repo" {
		t.Errorf("TestData = %+v", data.TestData)
	}
	if data.TestData.Timestamp == "" {
		t.Error("Expected timestamp")
	}

	want := []string{"/", "/about", "/contact"}
	if len(data.Reports) != len(want) {
		t.Fatalf("Reports = %d, want %d", len(data.Reports), len(want))
	}
	for i, w := range want {
		if data.Reports[i].PagePath != w {
			t.Errorf("Reports[%d].PagePath = %q, want %q", i, data.Reports[i].PagePath, w)
		}
	}
}

func TestBuildMultiPage_ResolvesStatus(t *testing.T) {
	pages := []PageResult{
		{PagePath: "/", Verdict: sampleVerdict("/", verdict.CriticalNone)},
		{PagePath: "/bad", Verdict: sampleVerdict("/bad", verdict.CriticalMissingSections)},
	}

	data, err := BuildMultiPage("1", "org/repo", pages)
	if err != nil {
		t.Fatalf("BuildMultiPage error: %v", err)
	}

	if data.Reports[0].Status != verdict.StatusPass {
		t.Errorf("Reports[0].Status = %q, want pass", data.Reports[0].Status)
	}
	if data.Reports[1].Status != verdict.StatusFail {
		t.Errorf("Reports[1].Status = %q, want fail", data.Reports[1].Status)
	}

	if got := verdict.Aggregate(Statuses(data)); got != verdict.StatusFail {
		t.Errorf("Aggregate = %q, want fail", got)
	}
}

func TestBuildMultiPage_EncodesImageRefs(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.png")
	prPath := filepath.Join(dir, "pr.png")
	diffPath := filepath.Join(dir, "diff.png")
	for path, content := range map[string]string{
		basePath: "base-bytes", prPath: "pr-bytes", diffPath: "diff-bytes",
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pages := []PageResult{{
		PagePath: "/",
		Verdict:  sampleVerdict("/", verdict.CriticalNone),
		Images:   &ImagePaths{Base: basePath, PR: prPath, Diff: diffPath},
	}}

	data, err := BuildMultiPage("1", "org/repo", pages)
	if err != nil {
		t.Fatalf("BuildMultiPage error: %v", err)
	}

	refs := data.Reports[0].ImageRefs
	if refs == nil {
		t.Fatal("Expected ImageRefs")
	}
	if refs.Diff != base64.StdEncoding.EncodeToString([]byte("diff-bytes")) {
		t.Errorf("Diff ref = %q", refs.Diff)
	}
}

func TestBuildMultiPage_MissingImageFails(t *testing.T) {
	pages := []PageResult{{
		PagePath: "/",
		Verdict:  sampleVerdict("/", verdict.CriticalNone),
		Images:   &ImagePaths{Base: filepath.Join(t.TempDir(), "missing.png")},
	}}

	if _, err := BuildMultiPage("1", "org/repo", pages); err == nil {
		t.Fatal("Expected error for missing screenshot")
	}
}
