// Package logger provides a simple, thread-safe logging facility.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each log entry includes a timestamp, level, optional logger name, and message.
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("pool started")
//	logger.Error("shutdown failed: %v", err)
//
// Creating a custom logger and named children:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	wl := l.Named("pool").Named("worker-0") // [pool/worker-0]
//	wl.Debug("waiting for a job")
//
// Children share the parent's writer, mutex and level, so SetLevel on any of
// them affects the whole tree.
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// ParseLevel converts configuration strings ("debug", "info", "warn", "error").
//
// # Thread Safety
//
// All logging operations are protected by a mutex and safe for concurrent use.
package logger
