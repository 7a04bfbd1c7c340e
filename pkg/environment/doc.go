// Package environment propagates the application environment (development,
// staging, production) through configuration, context.Context, HTTP requests
// and structured logs.
//
// Parse maps configured values such as "prod" to an Environment. WithContext
// and FromContext store and read it on a context; Middleware attaches it to
// every request; LoggerExtractor exposes it to the logger package as an
// "env" attribute.
package environment
