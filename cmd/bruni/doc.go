// Bruni compares a deployed site against its PR preview for visual
// regressions.
//
// It captures full-page screenshots of both URLs, generates a pixel diff,
// asks a vision model for a structured verdict per page, and aggregates
// the results with deterministic exit codes for CI gating. With GitHub
// context available it keeps a single up-to-date analysis comment on the
// pull request.
//
// Usage:
//
//	bruni compare --base-url https://example.com --pr-url https://preview.example.com
//	bruni compare --base-url ... --pr-url ... --pages /,/pricing,/about
//	bruni config show
//	bruni cache clear
package main
