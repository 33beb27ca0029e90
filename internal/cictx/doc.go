// Package cictx resolves the CI run context: repository, pull request
// number, and run id.
//
// Explicit flags take precedence, then the standard GitHub Actions
// environment variables, then the event payload at GITHUB_EVENT_PATH and
// the merge ref. A missing PR number is not an error; it just disables
// the comment-publishing step downstream.
package cictx
