// Package httpserver runs an http.Server with graceful shutdown, configurable
// timeouts, lifecycle hooks and health-check handlers.
//
// Run binds the listener first, so an unusable address fails immediately with
// ErrStart, then serves until the context is cancelled or the process receives
// SIGINT or SIGTERM. Shutdown waits for in-flight requests up to the shutdown
// timeout.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler answers liveness probes with "ALIVE" and, when given
// checks, readiness probes with "READY" or 503 "NOT_READY".
//
// Errors are sentinel values checked with errors.Is: ErrStart,
// ErrAlreadyRunning and ErrShutdown.
package httpserver
