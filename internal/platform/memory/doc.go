// Package memory provides an in-process implementation of store.TaskStore.
//
// Records live in a mutex-protected map for the lifetime of the process and
// are copied on the way in and out, so callers never share memory with the
// store. Nothing survives a restart.
package memory
