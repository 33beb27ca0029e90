package cictx

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Context identifies the CI run bruni is executing in.
type Context struct {
	Repository string // "owner/name"
	PRNumber   int
	RunID      string
}

// Overrides are caller-supplied values that take precedence over anything
// detected from the environment.
type Overrides struct {
	Repository string
	PRNumber   int
}

// Resolve builds the CI context. Explicit overrides win, then environment
// variables (GITHUB_REPOSITORY, PR_NUMBER, GITHUB_RUN_ID), then values
// parsed out of the CI event payload or ref.
func Resolve(overrides Overrides) (Context, error) {
	ctx := Context{
		Repository: overrides.Repository,
		PRNumber:   overrides.PRNumber,
		RunID:      os.Getenv("GITHUB_RUN_ID"),
	}

	if ctx.Repository == "" {
		ctx.Repository = os.Getenv("GITHUB_REPOSITORY")
	}

	if ctx.PRNumber == 0 {
		if raw := os.Getenv("PR_NUMBER"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Context{}, fmt.Errorf("invalid PR_NUMBER %q: %w", raw, err)
			}
			ctx.PRNumber = n
		}
	}
	if ctx.PRNumber == 0 {
		ctx.PRNumber = numberFromEvent(os.Getenv("GITHUB_EVENT_PATH"))
	}
	if ctx.PRNumber == 0 {
		ctx.PRNumber = numberFromRef(os.Getenv("GITHUB_REF"))
	}

	return ctx, nil
}

// HasPR reports whether a PR number was resolved; without one, comment
// publishing and PR metadata lookups are skipped.
func (c Context) HasPR() bool {
	return c.Repository != "" && c.PRNumber > 0
}

// eventPayload covers the two event shapes that carry an issue number:
// pull_request events and issue_comment events.
type eventPayload struct {
	PullRequest *struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Issue *struct {
		Number int `json:"number"`
	} `json:"issue"`
}

func numberFromEvent(path string) int {
	if path == "" {
		return 0
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var event eventPayload
	if err := json.Unmarshal(data, &event); err != nil {
		return 0
	}
	if event.PullRequest != nil && event.PullRequest.Number > 0 {
		return event.PullRequest.Number
	}
	if event.Issue != nil && event.Issue.Number > 0 {
		return event.Issue.Number
	}
	return 0
}

// numberFromRef parses a PR number out of a merge ref like
// "refs/pull/123/merge".
func numberFromRef(ref string) int {
	parts := strings.Split(ref, "/")
	if len(parts) < 3 || parts[1] != "pull" {
		return 0
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0
	}
	return n
}
