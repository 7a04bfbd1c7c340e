// Package logger builds *slog.Logger instances through functional options,
// provides attribute helpers with consistent key names, and injects values
// stored in context.Context into every record.
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format and wraps it in LogHandlerDecorator, which runs the registered
// ContextExtractor callbacks (request id, environment) on each Handle call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("consentd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.DebugContext(ctx, "cookie evaluated",
//	    logger.Cookie("_ga"),
//	    logger.Category("analytics"),
//	    logger.Action("delete"),
//	)
//
// # Configuration
//
// Config reads APP_ENV, APP_NAME, LOG_LEVEL and LOG_FORMAT; NewFromConfig
// applies the environment defaults first and explicit overrides after:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg)
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no nil check.
package logger
