// Package httpserver runs the service's HTTP surface with configurable
// timeouts and graceful shutdown, and provides liveness and readiness
// handlers.
//
// Run blocks until its context is cancelled. Signal handling belongs to the
// caller, which usually derives the context from signal.NotifyContext and
// runs the server next to other components in an errgroup:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	g.Go(srv.RunFunc(ctx, router))
//
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
package httpserver
