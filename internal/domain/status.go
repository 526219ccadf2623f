package domain

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a task.
type Status string

// Possible task status values
const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// allowedTransitions is the task lifecycle graph. PENDING is the only initial
// state; states with no outgoing edges are terminal. Self-loops are absent.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Statuses returns every status value in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
}

// ParseStatus converts a string into a Status. Matching is case-sensitive.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether next is a direct successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s in one step.
func (s Status) AllowedTransitions() []Status {
	targets := allowedTransitions[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// UnmarshalJSON rejects anything that is not a known status string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidStatus
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return ErrInvalidStatus
	}
	*s = parsed
	return nil
}
