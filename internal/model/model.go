// Package model holds the board's entities and the request payloads that
// carry them in and out of the HTTP layer.
package model
