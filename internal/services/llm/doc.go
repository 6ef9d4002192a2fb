// Package llm wraps an OpenAI-compatible chat completion endpoint.
//
// The client retries transient failures (HTTP 408/429/5xx, timeouts, empty
// completions) with exponential backoff and honors Retry-After headers.
// Responses requested in JSON mode are decoded tolerantly: code fences and
// surrounding prose are stripped before unmarshaling.
package llm
