// Package logger builds configured slog.Logger instances for the service.
//
// It provides a small factory over log/slog with JSON and text formats,
// environment presets (development/production), static attributes and
// per-call context extractors, plus attribute helpers (Error, UserID,
// Component, Event) that keep log keys consistent across packages.
package logger
