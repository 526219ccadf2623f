package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrTaskNotFound(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lookup: %w", store.ErrTaskNotFound)
	assert.True(t, errors.Is(err, store.ErrTaskNotFound))
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.True(t, store.IsNotFoundError(err))
	assert.False(t, store.IsNotFoundError(store.ErrInvalidEntity))
	assert.Equal(t, "entity not found: task", store.ErrTaskNotFound.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		err := store.NewStoreError("task", "save", "validation failed", store.ErrInvalidEntity)
		assert.Equal(t, "save operation on task failed: validation failed: invalid entity", err.Error())
		assert.True(t, errors.Is(err, store.ErrInvalidEntity))

		var storeErr *store.StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "task", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := store.NewStoreError("task", "find", "timeout", nil)
		assert.Equal(t, "find operation on task failed: timeout", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
