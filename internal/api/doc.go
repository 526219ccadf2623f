// Package api adapts HTTP requests to the task service. It decodes and
// validates request bodies, calls the service, and maps its failures to
// status codes and {error, message} bodies.
package api
