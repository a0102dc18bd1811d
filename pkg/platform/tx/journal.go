package tx

import (
	"context"
	"fmt"
)

type journalKey struct{}

// Journal records undo steps for in-memory state touched by one operation.
// Revert replays them newest first, restoring the state seen before the
// operation began.
type Journal struct {
	undo []func()
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an undo step.
func (j *Journal) Record(undo func()) {
	j.undo = append(j.undo, undo)
}

// Revert runs every recorded step in reverse order and empties the journal.
func (j *Journal) Revert() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// Len returns the number of recorded steps.
func (j *Journal) Len() int {
	return len(j.undo)
}

// WithJournal stores the journal in context for downstream mutations.
func WithJournal(ctx context.Context, j *Journal) context.Context {
	if j == nil {
		return ctx
	}
	return context.WithValue(ctx, journalKey{}, j)
}

// JournalFrom extracts the journal from context if present.
func JournalFrom(ctx context.Context) (*Journal, bool) {
	j, ok := ctx.Value(journalKey{}).(*Journal)
	return j, ok
}

// Record appends undo to the context journal. Outside an operation there is
// nothing to roll back to, so the step is dropped.
func Record(ctx context.Context, undo func()) {
	if j, ok := JournalFrom(ctx); ok {
		j.Record(undo)
	}
}

// Savepoint runs fn against a child journal. If fn fails or panics, only the
// child's steps are reverted and the error is returned; on success the
// child's steps are folded into the parent so an outer failure still undoes them.
func Savepoint(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	child := NewJournal()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			child.Revert()
			return
		}
		if parent, ok := JournalFrom(ctx); ok {
			parent.undo = append(parent.undo, child.undo...)
		}
	}()
	return fn(WithJournal(ctx, child))
}

// Set assigns v to *ptr and records the previous value.
func Set[T any](ctx context.Context, ptr *T, v T) {
	prev := *ptr
	*ptr = v
	Record(ctx, func() { *ptr = prev })
}

// Put stores m[k] = v and records how to restore the previous entry.
func Put[K comparable, V any](ctx context.Context, m map[K]V, k K, v V) {
	prev, had := m[k]
	m[k] = v
	Record(ctx, func() {
		if had {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}

// Delete removes m[k] and records how to restore it.
func Delete[K comparable, V any](ctx context.Context, m map[K]V, k K) {
	prev, had := m[k]
	if !had {
		return
	}
	delete(m, k)
	Record(ctx, func() { m[k] = prev })
}
