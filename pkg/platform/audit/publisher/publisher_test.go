package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/platform/audit/store/memory"
)

const registry = "0x00000000000000000000000000000000000000aa"

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{
		Subject: registry,
		Action:  string(audit.EventVersionAdded),
	})
	require.NoError(t, err)

	events, err := store.ListBySubject(context.Background(), registry)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventVersionAdded), events[0].Action)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{
			Subject: registry,
			Action:  string(audit.EventModuleCalled),
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListBySubject(context.Background(), registry)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull_DoesNotBlock(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), audit.Event{
				Subject: registry,
				Action:  string(audit.EventModuleCalled),
			})
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Subject: registry,
		Action:  string(audit.EventVersionPromoted),
	}))
	after := time.Now()

	events, err := pub.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.Before(before))
	assert.False(t, events[0].Timestamp.After(after))
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Subject:   registry,
		Action:    string(audit.EventVersionPromoted),
		Timestamp: customTime,
	}))

	events, err := pub.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_ListIsNewestFirst(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	actions := []audit.AuditEvent{audit.EventSuiteDeployed, audit.EventModuleBound, audit.EventModuleCalled}
	for _, a := range actions {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: registry, Action: string(a)}))
	}

	result, err := pub.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, string(audit.EventModuleCalled), result[0].Action)
	assert.Equal(t, string(audit.EventModuleBound), result[1].Action)
}
