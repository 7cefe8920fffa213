// Package logger provides structured logging utilities built on Go's
// standard slog package: a logger factory with environment presets and
// nil-safe attribute helpers.
//
//	log := logger.New(
//		logger.WithProduction("flare"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("request finished",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(resp.Status()),
//		logger.Error(err), // dropped when err is nil
//	)
package logger
