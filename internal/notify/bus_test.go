package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_AddAssignsMonotonicIDs(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	first := bus.Info("one", "")
	second := bus.Info("two", "")
	third := bus.Info("three", "")

	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestBus_TTLExpiry(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	id := bus.Add(Notification{Kind: KindInfo, Title: "fleeting", TTL: 100 * time.Millisecond})
	require.Len(t, bus.List(), 1)

	time.Sleep(150 * time.Millisecond)
	for _, n := range bus.List() {
		assert.NotEqual(t, id, n.ID, "notification should have expired")
	}
}

func TestBus_PersistentNeverAutoRemoves(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	id := bus.Add(Notification{Kind: KindLoading, Title: "sticky", Persistent: true, TTL: 50 * time.Millisecond})

	time.Sleep(120 * time.Millisecond)
	list := bus.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestBus_RemovePreservesOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	a := bus.Add(Notification{Kind: KindInfo, Title: "a", Persistent: true})
	b := bus.Add(Notification{Kind: KindInfo, Title: "b", Persistent: true})
	c := bus.Add(Notification{Kind: KindInfo, Title: "c", Persistent: true})

	bus.Remove(b)

	list := bus.List()
	require.Len(t, list, 2)
	assert.Equal(t, a, list[0].ID)
	assert.Equal(t, c, list[1].ID)
}

func TestBus_ErrorGetsLongerDefaultTTL(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Error("boom", "")
	bus.Success("ok", "")

	list := bus.List()
	require.Len(t, list, 2)
	assert.Equal(t, ErrorTTL, list[0].TTL)
	assert.Equal(t, DefaultTTL, list[1].TTL)
}

func TestBus_SubscribeReceivesEvents(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	subID, events := bus.Subscribe()
	defer bus.Unsubscribe(subID)

	id := bus.Info("hello", "world")

	select {
	case e := <-events:
		assert.Equal(t, EventAdded, e.Type)
		require.NotNil(t, e.Notification)
		assert.Equal(t, id, e.Notification.ID)
	case <-time.After(time.Second):
		t.Fatal("expected an added event")
	}

	bus.Remove(id)
	select {
	case e := <-events:
		assert.Equal(t, EventRemoved, e.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a removed event")
	}
}

func TestBus_ClearAll(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Info("a", "")
	bus.Info("b", "")
	bus.ClearAll()

	assert.Empty(t, bus.List())
}

func TestBus_RemoveUnknownIsNoop(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Remove(42)
	assert.Empty(t, bus.List())
}
