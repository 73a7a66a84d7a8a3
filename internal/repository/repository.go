// Package repository holds the SQL for users and messages.
//
// Every write runs in its own transaction so a failed statement leaves
// nothing behind, and every failure is passed through sqlerr.HandleError
// before it leaves the package.
package repository
