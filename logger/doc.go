// Package logger provides structured logging for a treereduce run
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and run-scoped loggers carrying a run name plus
// per-call fields for the task, stage, and process/thread index a
// message came from.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, cfg.Name)
//	ctx = logger.ContextWithRunID(ctx, cfg.Name)
//	ctx = logger.ContextWithStage(ctx, "group-by")
//	log.WithContext(ctx).Info("stage started", logger.Fields(logger.FieldTaskID, task.ID()))
package logger
