// Package events publishes task lifecycle changes to interested handlers.
//
// Events are emitted only after a change has been persisted. Handlers run
// synchronously in registration order; a failing handler does not stop the
// others from receiving the event.
package events
