package httpserver

import "errors"

var (
	// ErrStart wraps listener failures reported by Run.
	ErrStart = errors.New("http server failed to start")
	// ErrShutdown wraps failures to drain the server within the timeout.
	ErrShutdown = errors.New("http server shutdown failed")
)
