// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a valid client supplied X-Request-ID header or generates
// a UUIDv4, stores the id in the request context and echoes it back in the
// response. LoggerExtractor plugs the id into pkg/logger so every record
// written with the request context carries a request_id attribute:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
// Invalid incoming ids are replaced silently; the package returns no errors.
package requestid
