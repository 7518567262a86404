// Package logger provides the structured logging interface used across the
// harvester. It wraps zerolog with a small Logger interface, a process-wide
// instance configured from config.LoggingConfig, a no-op logger, and a
// capturing TestLogger for assertions in tests.
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("model", "alice")
//	log.InfoWithFields("Gallery parsed", map[string]interface{}{"photos": 12})
package logger
