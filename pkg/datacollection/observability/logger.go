// Package observability provides structured logging, metrics, and tracing
// for data collection saves and loads.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds collection context to a logger.
// Returns a new logger with collection, cycle, and rank fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run", 3, 0)
//	enriched.Info("writing mesh") // includes collection, cycle, rank
func EnrichLogger(logger *slog.Logger, collection string, cycle, rank int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("collection", collection),
		slog.Int("cycle", cycle),
		slog.Int("rank", rank),
	)
}

// LogSaveStart logs the start of a save.
func LogSaveStart(logger *slog.Logger, saveID string, fields int) {
	if logger == nil {
		return
	}
	logger.Debug("save starting",
		slog.String("save_id", saveID),
		slog.Int("fields", fields),
	)
}

// LogSaveComplete logs a successful save.
func LogSaveComplete(logger *slog.Logger, saveID string, durationMs float64, files int) {
	if logger == nil {
		return
	}
	logger.Info("save completed",
		slog.String("save_id", saveID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("files_written", files),
	)
}

// LogSaveError logs a failed save.
func LogSaveError(logger *slog.Logger, saveID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("save failed",
		slog.String("save_id", saveID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogLoadComplete logs a successful load.
func LogLoadComplete(logger *slog.Logger, durationMs float64, fields int) {
	if logger == nil {
		return
	}
	logger.Info("load completed",
		slog.Float64("duration_ms", durationMs),
		slog.Int("fields", fields),
	)
}

// LogLoadError logs a failed load.
func LogLoadError(logger *slog.Logger, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("load failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogFileError logs a file or directory operation failure.
func LogFileError(logger *slog.Logger, op, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("file operation failed",
		slog.String("operation", op),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
