package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a new GitHub client. Requires GITHUB_TOKEN env var.
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	return &Client{
		token:   token,
		apiURL:  apiURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Comment is an issue comment as returned by the GitHub API.
type Comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// ListComments fetches all comments on a PR/issue. repo is "owner/name".
func (c *Client) ListComments(ctx context.Context, repo string, issue int) ([]Comment, error) {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.apiURL, repo, issue)

	body, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}

	var comments []Comment
	if err := json.Unmarshal(body, &comments); err != nil {
		return nil, fmt.Errorf("parsing comments: %w", err)
	}
	return comments, nil
}

// CreateComment posts a new comment on a PR/issue.
func (c *Client) CreateComment(ctx context.Context, repo string, issue int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.apiURL, repo, issue)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}
	if _, err := c.do(ctx, "POST", url, payload); err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

// UpdateComment replaces the body of an existing comment.
func (c *Client) UpdateComment(ctx context.Context, repo string, commentID int64, body string) error {
	url := fmt.Sprintf("%s/repos/%s/issues/comments/%d", c.apiURL, repo, commentID)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}
	if _, err := c.do(ctx, "PATCH", url, payload); err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}
	return nil
}

// PRMetadata is the subset of pull request fields used in oracle prompts.
type PRMetadata struct {
	Title       string `json:"title"`
	Description string `json:"body"`
}

// GetPRMetadata fetches the title and description of a pull request.
func (c *Client) GetPRMetadata(ctx context.Context, repo string, prNumber int) (*PRMetadata, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", c.apiURL, repo, prNumber)

	body, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching PR metadata: %w", err)
	}

	var meta PRMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("parsing PR metadata: %w", err)
	}
	return &meta, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("authentication failed: %s", string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
