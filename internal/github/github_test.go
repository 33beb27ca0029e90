package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_API_URL", serverURL)
	c, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestNewClient_RequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	if _, err := NewClient(); err == nil {
		t.Fatal("Expected error without GITHUB_TOKEN")
	}
}

func TestListComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/org/repo/issues/42/comments" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `[{"id": 1, "body": "first"}, {"id": 2, "body": "second"}]`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	comments, err := c.ListComments(context.Background(), "org/repo", 42)
	if err != nil {
		t.Fatalf("ListComments error: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != 1 || comments[1].Body != "second" {
		t.Errorf("Comments = %+v", comments)
	}
}

func TestCreateComment(t *testing.T) {
	var gotMethod, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		gotBody = payload["body"]
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 100}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if err := c.CreateComment(context.Background(), "org/repo", 42, "hello"); err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if gotMethod != "POST" || gotBody != "hello" {
		t.Errorf("Got %s %q", gotMethod, gotBody)
	}
}

func TestUpdateComment(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"id": 7}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if err := c.UpdateComment(context.Background(), "org/repo", 7, "updated"); err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
	if gotMethod != "PATCH" || gotPath != "/repos/org/repo/issues/comments/7" {
		t.Errorf("Got %s %s", gotMethod, gotPath)
	}
}

func TestGetPRMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/org/repo/pulls/5" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"title": "Redesign hero", "body": "Updates the hero banner"}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	meta, err := c.GetPRMetadata(context.Background(), "org/repo", 5)
	if err != nil {
		t.Fatalf("GetPRMetadata error: %v", err)
	}
	if meta.Title != "Redesign hero" || meta.Description != "Updates the hero banner" {
		t.Errorf("Metadata = %+v", meta)
	}
}

func TestClient_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	_, err := c.ListComments(context.Background(), "org/repo", 1)
	if err == nil || !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("Expected auth error, got %v", err)
	}
}

// fakeIssue is an in-memory comment store backing the publisher tests.
type fakeIssue struct {
	comments []Comment
	nextID   int64
}

func (f *fakeIssue) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET":
			_ = json.NewEncoder(w).Encode(f.comments)
		case r.Method == "POST":
			body, _ := io.ReadAll(r.Body)
			var payload map[string]string
			_ = json.Unmarshal(body, &payload)
			f.nextID++
			f.comments = append(f.comments, Comment{ID: f.nextID, Body: payload["body"]})
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"id": %d}`, f.nextID)
		case r.Method == "PATCH":
			body, _ := io.ReadAll(r.Body)
			var payload map[string]string
			_ = json.Unmarshal(body, &payload)
			var id int64
			fmt.Sscanf(r.URL.Path, "/repos/org/repo/issues/comments/%d", &id)
			for i := range f.comments {
				if f.comments[i].ID == id {
					f.comments[i].Body = payload["body"]
				}
			}
			fmt.Fprintf(w, `{"id": %d}`, id)
		default:
			t.Errorf("Unexpected method %s", r.Method)
		}
	}
}

func TestPublish_IdempotentUpsert(t *testing.T) {
	issue := &fakeIssue{
		comments: []Comment{{ID: 1, Body: "unrelated human comment"}},
		nextID:   1,
	}
	server := httptest.NewServer(issue.handler(t))
	defer server.Close()

	c := testClient(t, server.URL)
	p := NewPublisher(c, "org/repo", 42, "")

	if err := p.Publish(context.Background(), "## ✅ Pass\n\nfirst body"); err != nil {
		t.Fatalf("First publish error: %v", err)
	}
	if err := p.Publish(context.Background(), "## ❌ Fail\n\nsecond body"); err != nil {
		t.Fatalf("Second publish error: %v", err)
	}

	var ours []Comment
	for _, c := range issue.comments {
		if IsOwnComment(c.Body) {
			ours = append(ours, c)
		}
	}
	if len(ours) != 1 {
		t.Fatalf("Expected exactly 1 tool comment, got %d", len(ours))
	}
	if !strings.Contains(ours[0].Body, "second body") {
		t.Errorf("Final body = %q, want second publish content", ours[0].Body)
	}
	if len(issue.comments) != 2 {
		t.Errorf("Expected human comment untouched, total = %d", len(issue.comments))
	}
}

func TestPublish_AppendsArtifactLink(t *testing.T) {
	issue := &fakeIssue{}
	server := httptest.NewServer(issue.handler(t))
	defer server.Close()

	c := testClient(t, server.URL)
	p := NewPublisher(c, "org/repo", 42, "12345")

	if err := p.Publish(context.Background(), "## ✅ Pass\n"); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(issue.comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(issue.comments))
	}
	want := "[View Artifacts](https://github.com/org/repo/actions/runs/12345)"
	if !strings.Contains(issue.comments[0].Body, want) {
		t.Errorf("Body = %q, missing artifact link", issue.comments[0].Body)
	}
}

func TestPublish_DoesNotDuplicateArtifactLink(t *testing.T) {
	issue := &fakeIssue{}
	server := httptest.NewServer(issue.handler(t))
	defer server.Close()

	c := testClient(t, server.URL)
	p := NewPublisher(c, "org/repo", 42, "456")

	// Bodies rendered with a run id already carry the link in the header.
	link := "[View Artifacts](https://github.com/org/repo/actions/runs/456)"
	body := "## ✅ Pass\n\n1 page(s) analyzed by bruniai\n\n" + link + "\n\n---\n"
	if err := p.Publish(context.Background(), body); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(issue.comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(issue.comments))
	}
	if got := strings.Count(issue.comments[0].Body, "[View Artifacts]("); got != 1 {
		t.Errorf("Artifact link appears %d times, want 1\nbody: %q", got, issue.comments[0].Body)
	}
}

func TestIsOwnComment(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"## ✅ Pass\n\ndetails", true},
		{"## ❌ Fail\n", true},
		{"# URL Comparison Analysis\n\nlegacy", true},
		{"Information about visual testing analysis provided by [bruniai](https://www.brunivisual.com/)", true},
		{"LGTM!", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsOwnComment(tt.body); got != tt.want {
			t.Errorf("IsOwnComment(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}
}
