// Package domain contains the task entity, its enumerated priority and status
// values, and the rules that govern them: title and description normalization,
// soft-deletion, and the status lifecycle graph.
//
// Nothing in this package performs I/O. Callers pass in the current time so
// that timestamps stay deterministic in tests.
package domain
