// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives bound
// requests from the handler, enforces what the store alone cannot (a
// message is only reachable through its owner), and calls the store.
//
// Services depend on the UserStore and MessageStore interfaces rather than
// the pgx repositories so tests can run against an in-memory store.
package service
