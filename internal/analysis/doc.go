// Package analysis orchestrates the vision oracle call for one page:
// prompt assembly, screenshot encoding, rate limiting, response caching,
// and validation of the oracle's answer into a Verdict.
package analysis
