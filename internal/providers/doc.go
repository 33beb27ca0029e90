// Package providers implements the vision oracle abstraction and its
// OpenAI and Anthropic backends.
//
// Providers are hand-rolled HTTP clients with a shared retry policy:
// rate-limit and server errors back off exponentially, auth errors fail
// fast. A RateLimiter serializes oracle calls across the run with a
// minimum inter-call interval.
package providers
