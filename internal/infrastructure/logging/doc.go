// Package logging provides structured logging for Rankine Core.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Float fields rounded to six significant digits, durations as strings
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("cycle solved", "run_id", id, "efficiency", eff)
//
// *Logger satisfies the small Logger interfaces declared by the cycle,
// mqtt and api packages.
package logging
