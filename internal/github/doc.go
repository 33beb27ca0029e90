// Package github provides a minimal GitHub REST API client for publishing
// analysis results as pull-request comments.
//
// The [Publisher] keeps at most one tool-authored comment per PR: it
// recognizes a previously posted comment by a small set of sentinel body
// prefixes and edits it in place rather than posting a duplicate. The
// client authenticates with the GITHUB_TOKEN environment variable and
// honors GITHUB_API_URL for GitHub Enterprise deployments.
package github
