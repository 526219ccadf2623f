// Package shared holds the request decoding, validation, response writing and
// trace-id helpers used by every HTTP handler.
package shared
