package github

import (
	"context"
	"fmt"
	"strings"
)

// sentinelPrefixes identify a comment previously posted by this tool. The
// emoji headers are what the markdown writer currently emits; the other
// entries are older header formats still found on long-lived PRs.
var sentinelPrefixes = []string{
	"## ✅",
	"## ⚠️",
	"## ❌",
	"## ❓",
	"Information about visual testing analysis provided by [bruniai]",
	"# URL Comparison Analysis",
}

// Publisher upserts the analysis comment on a pull request. At most one
// tool-authored comment exists on a PR after a successful publish;
// re-running edits the existing comment instead of adding another.
type Publisher struct {
	client *Client
	repo   string
	issue  int
	runID  string
}

// NewPublisher creates a comment publisher for one PR. runID, when
// non-empty, is used to link the CI run's artifacts from the comment.
func NewPublisher(client *Client, repo string, issue int, runID string) *Publisher {
	return &Publisher{client: client, repo: repo, issue: issue, runID: runID}
}

// Publish upserts the comment: finds an existing tool-authored comment by
// sentinel prefix and updates it in place, or creates a new one. An
// artifacts link is appended only when the rendered body does not already
// carry one in its header.
func (p *Publisher) Publish(ctx context.Context, body string) error {
	if p.runID != "" && !strings.Contains(body, "[View Artifacts](") {
		body = body + fmt.Sprintf("\n[View Artifacts](%s)\n", ArtifactURL(p.repo, p.runID))
	}

	comments, err := p.client.ListComments(ctx, p.repo, p.issue)
	if err != nil {
		return err
	}

	for _, c := range comments {
		if IsOwnComment(c.Body) {
			return p.client.UpdateComment(ctx, p.repo, c.ID, body)
		}
	}

	return p.client.CreateComment(ctx, p.repo, p.issue, body)
}

// IsOwnComment reports whether a comment body was authored by this tool.
func IsOwnComment(body string) bool {
	for _, prefix := range sentinelPrefixes {
		if strings.HasPrefix(body, prefix) {
			return true
		}
	}
	return false
}

// ArtifactURL builds the CI artifacts link for a run.
func ArtifactURL(repo, runID string) string {
	return fmt.Sprintf("https://github.com/%s/actions/runs/%s", repo, runID)
}
