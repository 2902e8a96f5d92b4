// Package errors provides the structured error type shared by the graph
// cache and the HTTP layer: machine-readable codes, HTTP status mapping and
// retryable detection, rendered following RFC 7807.
package errors
