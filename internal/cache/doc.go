// Package cache provides a file-based cache for vision oracle responses.
//
// Entries are keyed by a SHA-256 hash of the provider name, model, and the
// base64-encoded screenshot pair, so re-running against unchanged pages
// skips the oracle entirely. Each entry stores the raw response string with
// a creation timestamp and TTL; expired entries are skipped on read and
// removed during cache-clear operations.
//
// The default cache directory is $XDG_CACHE_HOME/bruni (or the
// OS-appropriate equivalent).
package cache
