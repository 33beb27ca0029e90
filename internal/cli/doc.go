// Package cli wires together the Cobra command tree for the bruni binary.
//
// It defines the root command and all subcommands (compare, config, cache,
// version), binds flags, reads configuration, drives the page-by-page
// comparison pipeline, and returns deterministic exit codes for CI gating.
package cli
