// Package server provides the HTTP boundary of the service: a Gin engine
// served over HTTP/1.1 and h2c, wrapped in the net/http middleware of
// server/middleware.
//
// Routes:
//
//   - /dag-dependencies: rendered workflow dependency graph
//   - /health: aggregated component health
//   - /alive, /ready: liveness and readiness probes
//   - /info: build information
package server
