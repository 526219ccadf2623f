// Package store defines the persistence contract for tasks.
//
// TaskStore is a capability interface with an in-memory implementation
// (internal/platform/memory) and a PostgreSQL implementation
// (internal/platform/postgres). The service layer depends only on this
// package, so a backend can be swapped without touching business rules.
package store
