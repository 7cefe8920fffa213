// Package health provides handlers for service health probes.
//
//   - Liveness: the process is running (no dependency checks)
//   - Readiness: every dependency check passes
//   - NoContent: 204 for high-frequency pings
//
// Usage:
//
//	mux.Handle("GET /health/live", handler.New(health.Liveness))
//	mux.Handle("GET /health/ready", handler.New(health.Readiness(log, db.Ping, cache.Ping)))
//	mux.Handle("GET /ping", handler.New(health.NoContent))
//
// Dependency checks follow the func(context.Context) error signature:
//
//	func checkDB(ctx context.Context) error {
//		return db.PingContext(ctx)
//	}
package health
