// Package logging provides structured logging for the boxes tools.
//
// This package wraps a zap logger with convenience functions for common
// logging patterns. Logging is silent unless a level is given explicitly or
// through BOXES_LOG_LEVEL, so CLI output stays clean by default.
//
// # Log Levels
//
//   - Debug: watch notifications, websocket payloads
//   - Info: loads, saves, connections, served requests
//   - Warn: rejected documents, dropped watchers, retries
//   - Error: startup failures
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Document saved",
//	    zap.String("handle", "notes"),
//	    zap.Int("bytes", 42),
//	)
//
// # Domain Helpers
//
//	logging.LogLoad(handle, size)
//	logging.LogLoadError(handle, err) // adds parse error kind and position
//	logging.LogSave(handle, size)
//	logging.LogHTTPRequest(method, path, status, duration)
//	logging.LogWatchEvent(handle, event)
//
// # Output
//
// The interactive editor draws on the terminal, so it uses
// InitializeWithOutput to send log lines to a file.
package logging
