// Package logger builds the service's *slog.Logger.
//
// New applies functional options on top of production-safe defaults (JSON,
// INFO, stdout) and wraps the handler so values carried in context.Context
// (request ID, task ID, trigger) are added to every record without threading
// them through call sites.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "schoolpass-automations"),
//		logger.WithContextExtractors(requestid.LoggerExtractor(), queue.LoggerExtractor()),
//	)
//	log.ErrorContext(ctx, "report failed", logger.Operation("bus_manifest_report"), logger.Error(err))
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger
