package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/models"
)

func TestHubFansOutEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	a, b := NewClient(1), NewClient(2)
	h.Register(a)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	tutorID := uint(3)
	slot := &models.Availability{
		ID: 9, TutorID: &tutorID, Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Timeblock: "A", Status: models.StatusBooked,
	}
	h.Publish(NewSlotEvent(EventSlotBooked, slot))

	for _, c := range []*Client{a, b} {
		select {
		case evt := <-c.Send:
			assert.Equal(t, SlotEvent{
				Type: EventSlotBooked, SlotID: 9, TutorID: 3, Date: "2024-03-15", Timeblock: "A", Status: "B",
			}, evt)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	h.Unregister(a)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)
}

func TestHubDropsSlowClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	slow := &Client{ID: NewClient(1).ID, UserID: 1, Send: make(chan SlotEvent)}
	h.Register(slow)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Publish(SlotEvent{Type: EventSlotCreated, SlotID: 1})
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestPublishNeverBlocks(t *testing.T) {
	h := NewHub() // not running
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(SlotEvent{Type: EventSlotCreated, SlotID: uint(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}
