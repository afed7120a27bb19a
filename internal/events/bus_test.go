package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	ch := bus.Subscribe(EventJobStarted, 10)

	err := bus.Publish(context.Background(), &JobStarted{
		EventMeta: NewMeta(EventJobStarted, EntityJob, 1),
		SessionID: 7,
		Source:    "season2.zip",
	})
	require.NoError(t, err)

	select {
	case got := <-ch:
		started, ok := got.(*JobStarted)
		require.True(t, ok)
		assert.Equal(t, "season2.zip", started.Source)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_SubscribeIgnoresOtherKinds(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventJobCompleted, 10)

	require.NoError(t, bus.Publish(context.Background(),
		&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 1)}))
	require.NoError(t, bus.Publish(context.Background(),
		&JobCompleted{EventMeta: NewMeta(EventJobCompleted, EntityJob, 1), Renamed: 4}))

	select {
	case got := <-ch:
		assert.Equal(t, EventJobCompleted, got.EventType())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	assert.Empty(t, ch, "only the subscribed kind is delivered")
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)

	require.NoError(t, bus.Publish(context.Background(),
		&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 1)}))
	require.NoError(t, bus.Publish(context.Background(),
		&SettingsChanged{EventMeta: NewMeta(EventSettingsChanged, EntitySession, 7), Key: "channel", Value: "MyTV"}))

	got := make([]Event, 0, 2)
	timeout := time.After(time.Second)
	for i := 0; i < 2; i++ {
		select {
		case e := <-ch:
			got = append(got, e)
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", i+1)
		}
	}

	assert.Equal(t, EventJobStarted, got[0].EventType())
	assert.Equal(t, EventSettingsChanged, got[1].EventType())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventJobStatus, 10)
	bus.Unsubscribe(ch)

	// Publishing after unsubscribe must not block or panic.
	err := bus.Publish(context.Background(),
		&JobStatus{EventMeta: NewMeta(EventJobStatus, EntityJob, 1), Processed: 4, Total: 8})
	require.NoError(t, err)

	_, open := <-ch
	assert.False(t, open, "unsubscribed channel is closed")
}

func TestBus_DropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventJobStatus, 1)

	for i := 1; i <= 3; i++ {
		require.NoError(t, bus.Publish(context.Background(),
			&JobStatus{EventMeta: NewMeta(EventJobStatus, EntityJob, 1), Processed: i}))
	}

	// Only the first fit; the rest were dropped, not queued.
	got := (<-ch).(*JobStatus)
	assert.Equal(t, 1, got.Processed)
	assert.Empty(t, ch)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = bus.Publish(context.Background(),
				&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, int64(n))})
		}(i)
	}
	wg.Wait()

	count := 0
	timeout := time.After(time.Second)
loop:
	for {
		select {
		case <-ch:
			count++
			if count == 10 {
				break loop
			}
		case <-timeout:
			break loop
		}
	}
	assert.Equal(t, 10, count)
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(nil, nil)
	ch := bus.Subscribe(EventJobStarted, 1)
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(),
		&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 1)})
	require.NoError(t, err)

	_, open := <-ch
	assert.False(t, open, "subscriber channels close with the bus")
}
