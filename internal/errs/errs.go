// Package errs defines the error shapes the board hands back to clients.
//
// Handlers never invent ad-hoc error payloads: every failure that reaches
// the HTTP layer is (or is converted into) an *HTTPError, which carries
// the status, a machine-readable code and, for form submissions, the list
// of offending fields so the form can be re-rendered with inline messages.
package errs
