// Package client talks to the GophBlog HTTP API.
//
// HTTPClient keeps the bearer token of the current session in memory and
// attaches it to every protected call. Server error bodies are decoded into
// *APIError, which unwraps to the sentinel errors below so callers can use
// errors.Is.
package client
