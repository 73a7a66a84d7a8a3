// Package middleware holds the global middleware and the error handler:
// request ids, request-scoped logging, New Relic tracing, rate limiting,
// method override for HTML forms, CORS, secure headers, panic recovery.
package middleware
