// Package httpserver wraps net/http with graceful shutdown and configurable
// timeouts, so the binary's main stays a thin wiring layer.
//
// A Server is built from functional options or from a Config struct loaded
// from the environment, runs until its context is cancelled, and drains
// in-flight requests within the shutdown timeout. Signal handling stays
// with the binary; main cancels the context on SIGTERM.
// HealthCheckHandler exposes liveness and readiness probes backed by
// dependency check functions such as pg.Healthcheck.
package httpserver
