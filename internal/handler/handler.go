// Package handler holds the page handlers for users and messages and the
// health endpoint.
//
// Page handlers run inside the Handle/HandleForm pipeline: it binds the
// request (path ids, form body), validates it, calls the handler and
// writes the View or Redirect it returns. A form that fails validation or
// hits a uniqueness conflict is shown again with status 400.
package handler
