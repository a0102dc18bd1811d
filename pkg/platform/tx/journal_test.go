package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_RevertRestoresState(t *testing.T) {
	j := NewJournal()
	ctx := WithJournal(context.Background(), j)

	counter := 1
	m := map[string]int{"kept": 1, "dropped": 2}

	Set(ctx, &counter, 2)
	Set(ctx, &counter, 3)
	Put(ctx, m, "kept", 10)
	Put(ctx, m, "added", 5)
	Delete(ctx, m, "dropped")
	Delete(ctx, m, "never-there")

	assert.Equal(t, 3, counter)
	assert.Equal(t, map[string]int{"kept": 10, "added": 5}, m)
	assert.Equal(t, 5, j.Len())

	j.Revert()

	assert.Equal(t, 1, counter)
	assert.Equal(t, map[string]int{"kept": 1, "dropped": 2}, m)
	assert.Equal(t, 0, j.Len())
}

func TestRecord_NoJournalIsNoop(t *testing.T) {
	counter := 0
	Set(context.Background(), &counter, 7)
	assert.Equal(t, 7, counter)
}

func TestSavepoint(t *testing.T) {
	t.Run("failure reverts only the child", func(t *testing.T) {
		j := NewJournal()
		ctx := WithJournal(context.Background(), j)
		outer, inner := 0, 0

		Set(ctx, &outer, 1)
		err := Savepoint(ctx, func(ctx context.Context) error {
			Set(ctx, &inner, 1)
			return errors.New("hook failed")
		})

		require.Error(t, err)
		assert.Equal(t, 1, outer)
		assert.Equal(t, 0, inner)
		assert.Equal(t, 1, j.Len())
	})

	t.Run("panic is recovered and reverted", func(t *testing.T) {
		j := NewJournal()
		ctx := WithJournal(context.Background(), j)
		inner := 0

		err := Savepoint(ctx, func(ctx context.Context) error {
			Set(ctx, &inner, 9)
			panic("module exploded")
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "module exploded")
		assert.Equal(t, 0, inner)
	})

	t.Run("success folds into parent", func(t *testing.T) {
		j := NewJournal()
		ctx := WithJournal(context.Background(), j)
		inner := 0

		err := Savepoint(ctx, func(ctx context.Context) error {
			Set(ctx, &inner, 4)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 4, inner)

		j.Revert()
		assert.Equal(t, 0, inner, "outer revert must undo committed savepoint work")
	})
}
