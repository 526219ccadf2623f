// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests skip when no database is configured, except in CI where a
// missing database is a failure.
package testdb
