package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStatus_TransitionTable(t *testing.T) {
	t.Parallel()

	allowed := map[[2]Status]bool{
		{StatusPending, StatusInProgress}:   true,
		{StatusPending, StatusCancelled}:    true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusInProgress, StatusCancelled}: true,
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, Status("BOGUS").IsTerminal())
}

func TestStatus_AllowedTransitionsReturnsCopy(t *testing.T) {
	t.Parallel()

	targets := StatusPending.AllowedTransitions()
	require.Len(t, targets, 2)
	targets[0] = StatusCompleted
	assert.Equal(t, []Status{StatusInProgress, StatusCancelled}, StatusPending.AllowedTransitions())
}

func TestStatus_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"IN_PROGRESS"`), &s))
	assert.Equal(t, StatusInProgress, s)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"in_progress"`), &s), ErrInvalidStatus)
	assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &s), ErrInvalidStatus)
}

func TestPriority_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var p Priority
	require.NoError(t, json.Unmarshal([]byte(`"MEDIUM"`), &p))
	assert.Equal(t, PriorityMedium, p)

	var body struct {
		Priority *Priority `json:"priority"`
	}
	err := json.Unmarshal([]byte(`{"priority":"URGENT"}`), &body)
	assert.ErrorIs(t, err, ErrInvalidPriority)

	require.NoError(t, json.Unmarshal([]byte(`{"priority":null}`), &body))
	assert.Nil(t, body.Priority)
}

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := ParsePriority("LOW")
	require.NoError(t, err)
	assert.Equal(t, PriorityLow, p)
	_, err = ParsePriority("low")
	assert.ErrorIs(t, err, ErrInvalidPriority)

	s, err := ParseStatus("CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// A random walk through the lifecycle only ever lands on statuses the table
// allows, and every rejected step leaves the task untouched.
func TestTask_TransitionWalkProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task, err := NewTask("walk", nil, PriorityLow, fixedTime)
		if err != nil {
			rt.Fatalf("NewTask: %v", err)
		}

		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			next := rapid.SampledFrom(Statuses()).Draw(rt, "next")
			before := *task

			err := task.TransitionTo(next, before.UpdatedAt)
			if before.Status.CanTransitionTo(next) {
				if err != nil {
					rt.Fatalf("%s -> %s should succeed: %v", before.Status, next, err)
				}
				if task.Status != next {
					rt.Fatalf("status = %s, want %s", task.Status, next)
				}
				continue
			}

			if err == nil {
				rt.Fatalf("%s -> %s should be rejected", before.Status, next)
			}
			if *task != before {
				rt.Fatalf("rejected transition mutated the task")
			}
		}

		if task.UpdatedAt.Before(task.CreatedAt) {
			rt.Fatalf("updatedAt precedes createdAt")
		}
	})
}
