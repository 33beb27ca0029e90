package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bruniai/bruni/internal/analysis"
	"github.com/bruniai/bruni/internal/cache"
	"github.com/bruniai/bruni/internal/capture"
	"github.com/bruniai/bruni/internal/cictx"
	"github.com/bruniai/bruni/internal/config"
	"github.com/bruniai/bruni/internal/github"
	"github.com/bruniai/bruni/internal/imaging"
	"github.com/bruniai/bruni/internal/output"
	"github.com/bruniai/bruni/internal/providers"
	"github.com/bruniai/bruni/internal/report"
	"github.com/bruniai/bruni/internal/sections"
	"github.com/bruniai/bruni/internal/verdict"
	"github.com/spf13/cobra"
)

var (
	flagBaseURL         string
	flagPRURL           string
	flagPages           string
	flagProvider        string
	flagModel           string
	flagFormat          string
	flagOut             string
	flagImagesDir       string
	flagRepo            string
	flagPRNumber        int
	flagRateLimit       int
	flagMaxRetries      int
	flagAPIURL          string
	flagAPIToken        string
	flagNoComment       bool
	flagNoCache         bool
	flagContinueOnError bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a base site against its PR preview",
	Long: `Compare captures full-page screenshots of the base and preview URLs,
generates a pixel diff, asks the vision oracle for a structured verdict
per page, and aggregates the results. With GitHub context available it
upserts a PR comment; with a reporting token it sends the report to the
bruni backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		if flagNoComment {
			cfg.Comment = false
		}
		if flagNoCache {
			cfg.Cache.Enabled = false
		}
		if flagContinueOnError {
			cfg.ContinueOnError = true
		}
		runCompare(cfg)
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Base URL to compare against (required)")
	compareCmd.Flags().StringVar(&flagPRURL, "pr-url", "", "PR preview URL to compare (required)")
	compareCmd.Flags().StringVar(&flagPages, "pages", "", "Page paths to analyze (comma-separated, default: the root page)")
	compareCmd.Flags().StringVar(&flagProvider, "provider", "", "Vision provider (openai, anthropic)")
	compareCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	compareCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	compareCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	compareCmd.Flags().StringVar(&flagImagesDir, "images-dir", "", "Directory for screenshot and diff artifacts")
	compareCmd.Flags().StringVar(&flagRepo, "repo", "", "Repository as owner/name (default: detected from CI env)")
	compareCmd.Flags().IntVar(&flagPRNumber, "pr-number", 0, "Pull request number (default: detected from CI env)")
	compareCmd.Flags().IntVar(&flagRateLimit, "rate-limit", 0, "Maximum oracle calls per minute")
	compareCmd.Flags().IntVar(&flagMaxRetries, "max-retries", 0, "Retry attempts for oracle calls")
	compareCmd.Flags().StringVar(&flagAPIURL, "api-url", "", "Reporting backend URL")
	compareCmd.Flags().StringVar(&flagAPIToken, "api-token", "", "Reporting backend token")
	compareCmd.Flags().BoolVar(&flagNoComment, "no-comment", false, "Skip posting the PR comment")
	compareCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the oracle response cache")
	compareCmd.Flags().BoolVar(&flagContinueOnError, "continue-on-error", false, "Keep analyzing remaining pages when one fails")
	_ = compareCmd.MarkFlagRequired("base-url")
	_ = compareCmd.MarkFlagRequired("pr-url")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagImagesDir != "" {
		m["imagesDir"] = flagImagesDir
	}
	if flagRateLimit > 0 {
		m["rateLimit"] = fmt.Sprintf("%d", flagRateLimit)
	}
	if flagMaxRetries > 0 {
		m["maxRetries"] = fmt.Sprintf("%d", flagMaxRetries)
	}
	if flagAPIURL != "" {
		m["apiUrl"] = flagAPIURL
	}
	if flagAPIToken != "" {
		m["apiToken"] = flagAPIToken
	}
	return m
}

func runCompare(cfg config.Config) {
	ctx := context.Background()

	ci, err := cictx.Resolve(cictx.Overrides{Repository: flagRepo, PRNumber: flagPRNumber})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	provider, err := providers.New(cfg.Provider, cfg.Model, cfg.MaxRetries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if providers.IsAuthError(err) {
			exitCode = ExitAuthError
		} else {
			exitCode = ExitUsageError
		}
		return
	}

	oracleCache, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	analyzer := &analysis.PageAnalyzer{
		Provider:      provider,
		Limiter:       providers.NewRateLimiter(cfg.RateLimit),
		Cache:         oracleCache,
		AllowFreeText: cfg.AllowFreeText,
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
	}

	prTitle, prDescription := fetchPRMetadata(ctx, ci)

	pipeline := &comparePipeline{
		cfg:           cfg,
		ci:            ci,
		baseURL:       flagBaseURL,
		prURL:         flagPRURL,
		analyzer:      analyzer,
		capturer:      capture.NewChrome(),
		describer:     sections.NewDescriber(),
		prTitle:       prTitle,
		prDescription: prDescription,
	}

	pages := resolvePages(cfg)
	results, references, failed := pipeline.analyzePages(ctx, pages)

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no pages analyzed successfully")
		exitCode = ExitRuntimeError
		return
	}

	data, err := report.BuildMultiPage(fmt.Sprintf("%d", ci.PRNumber), ci.Repository, results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	outReport := &output.Report{
		Data:       data,
		References: references,
	}
	if ci.RunID != "" && ci.Repository != "" {
		outReport.ArtifactURL = github.ArtifactURL(ci.Repository, ci.RunID)
	}

	if err := output.WriteReport(outReport, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	// Reporting backend: fail fast on any chunk error.
	reporter := report.NewReporter(cfg.Reporting.Token, cfg.Reporting.APIURL)
	if reporter.Enabled() {
		if _, err := reporter.SendMultiPage(ctx, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
	}

	// PR comment: best effort, never fails the run.
	publishComment(ctx, cfg, ci, outReport)

	overall := verdict.Aggregate(report.Statuses(data))
	fmt.Fprintf(os.Stderr, "Analyzed %d page(s), overall status: %s\n", len(results), overall)

	if overall == verdict.StatusFail || failed > 0 {
		exitCode = ExitFindings
	}
}

// comparePipeline holds the collaborators for one compare run.
type comparePipeline struct {
	cfg           config.Config
	ci            cictx.Context
	baseURL       string
	prURL         string
	analyzer      *analysis.PageAnalyzer
	capturer      capture.Capturer
	describer     *sections.Describer
	prTitle       string
	prDescription string
}

// analyzePages runs the capture → diff → oracle sequence for each page in
// order. One page completes fully before the next starts.
func (p *comparePipeline) analyzePages(ctx context.Context, pages []string) ([]report.PageResult, map[string]string, int) {
	var results []report.PageResult
	references := make(map[string]string)
	failed := 0

	for _, page := range pages {
		result, reference, err := p.analyzePage(ctx, page)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error analyzing page %s: %v\n", page, err)
			if !p.cfg.ContinueOnError {
				return results, references, failed
			}
			continue
		}
		results = append(results, *result)
		references[page] = reference
	}

	return results, references, failed
}

func (p *comparePipeline) analyzePage(ctx context.Context, page string) (*report.PageResult, string, error) {
	baseURL := joinURL(p.baseURL, page)
	prURL := joinURL(p.prURL, page)
	slug := pageSlug(page)

	basePath := filepath.Join(p.cfg.ImagesDir, slug+"-base.png")
	prPath := filepath.Join(p.cfg.ImagesDir, slug+"-pr.png")
	diffPath := filepath.Join(p.cfg.ImagesDir, slug+"-diff.png")

	if err := p.capturer.Capture(ctx, baseURL, basePath); err != nil {
		return nil, "", fmt.Errorf("capturing base screenshot: %w", err)
	}
	if err := p.capturer.Capture(ctx, prURL, prPath); err != nil {
		return nil, "", fmt.Errorf("capturing preview screenshot: %w", err)
	}

	if _, err := imaging.GenerateDiff(basePath, prPath, diffPath); err != nil {
		return nil, "", fmt.Errorf("generating diff: %w", err)
	}

	reference, err := p.describer.Describe(ctx, baseURL)
	if err != nil {
		// The oracle still works without the structural description.
		fmt.Fprintf(os.Stderr, "Warning: describing sections for %s: %v\n", baseURL, err)
		reference = ""
	}

	v, err := p.analyzer.Analyze(ctx, analysis.Input{
		BaseScreenshot:   basePath,
		PRScreenshot:     prPath,
		DiffImage:        diffPath,
		SectionsAnalysis: reference,
		PRTitle:          p.prTitle,
		PRDescription:    p.prDescription,
		Context: verdict.Context{
			URL:        baseURL,
			PreviewURL: prURL,
			Repository: p.ci.Repository,
			PRNumber:   fmt.Sprintf("%d", p.ci.PRNumber),
		},
	})
	if err != nil {
		return nil, "", err
	}
	for _, r := range v.Repairs {
		fmt.Fprintf(os.Stderr, "Warning: %s: oracle enum repaired: %s\n", displayPath(page), r)
	}

	return &report.PageResult{
		PagePath: displayPath(page),
		Verdict:  v,
		Images: &report.ImagePaths{
			Base: basePath,
			PR:   prPath,
			Diff: diffPath,
		},
	}, reference, nil
}

func fetchPRMetadata(ctx context.Context, ci cictx.Context) (title, description string) {
	if !ci.HasPR() {
		return "", ""
	}
	client, err := github.NewClient()
	if err != nil {
		return "", ""
	}
	meta, err := client.GetPRMetadata(ctx, ci.Repository, ci.PRNumber)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: fetching PR metadata: %v\n", err)
		return "", ""
	}
	return meta.Title, meta.Description
}

func publishComment(ctx context.Context, cfg config.Config, ci cictx.Context, outReport *output.Report) {
	if !cfg.Comment || !ci.HasPR() {
		return
	}
	client, err := github.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: skipping PR comment: %v\n", err)
		return
	}

	var sb strings.Builder
	md := &output.MarkdownWriter{}
	if err := md.Write(&sb, outReport); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: rendering PR comment: %v\n", err)
		return
	}

	publisher := github.NewPublisher(client, ci.Repository, ci.PRNumber, ci.RunID)
	if err := publisher.Publish(ctx, sb.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: posting PR comment: %v\n", err)
	}
}

func resolvePages(cfg config.Config) []string {
	if flagPages != "" {
		return splitComma(flagPages)
	}
	if len(cfg.Pages) > 0 {
		return cfg.Pages
	}
	return []string{""}
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// joinURL appends a page path to a site URL.
func joinURL(base, page string) string {
	if page == "" || page == "/" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(page, "/")
}

// pageSlug converts a page path into a filesystem-safe artifact prefix.
func pageSlug(page string) string {
	trimmed := strings.Trim(page, "/")
	if trimmed == "" {
		return "root"
	}
	return strings.ReplaceAll(trimmed, "/", "-")
}

// displayPath normalizes a page path for report display.
func displayPath(page string) string {
	if page == "" {
		return "/"
	}
	if !strings.HasPrefix(page, "/") {
		return "/" + page
	}
	return page
}
