package httpserver

import "errors"

var (
	// ErrStart indicates the server failed to start listening or serving.
	ErrStart = errors.New("httpserver.start_failed")
	// ErrShutdown indicates graceful shutdown did not complete in time.
	ErrShutdown = errors.New("httpserver.shutdown_failed")
	// ErrAlreadyRunning indicates Run was called on a running server.
	ErrAlreadyRunning = errors.New("httpserver.already_running")
)
