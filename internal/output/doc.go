// Package output renders analysis reports for display or machine consumption.
//
// Three formats are supported:
//   - text: human-readable terminal output (default)
//   - json: full structured report JSON
//   - markdown: PR-comment body with per-page collapsible sections
//
// The markdown writer is deterministic: identical report data always
// renders to byte-identical output, which the comment publisher depends
// on for its idempotent-update check.
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then
// call [Writer.Write] with an [io.Writer] and a [*Report]. [WriteReport]
// is a convenience helper that handles destination selection.
package output
