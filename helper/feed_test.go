package helper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hostel_manager/constants"
	"hostel_manager/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, ch <-chan []byte) model.OccupancyEvent {
	t.Helper()
	select {
	case payload := <-ch:
		var event model.OccupancyEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	return model.OccupancyEvent{}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewOccupancyHub()
	a, unsubA := hub.Subscribe()
	b, unsubB := hub.Subscribe()
	defer unsubB()
	assert.Equal(t, 2, hub.Clients())

	event := model.OccupancyEvent{EventID: "e1", Reason: "student_allocated", Occupancy: model.Occupancy{RoomID: 3, Assigned: 1, Capacity: 2}}
	require.NoError(t, hub.PublishOccupancy(context.Background(), event))
	assert.Equal(t, event, receive(t, a))
	assert.Equal(t, event, receive(t, b))

	unsubA()
	unsubA()
	assert.Equal(t, 1, hub.Clients())
	_, open := <-a
	assert.False(t, open)
}

func TestHubDropsForSlowClient(t *testing.T) {
	hub := NewOccupancyHub()
	ch, unsub := hub.Subscribe()
	defer unsub()
	for i := 0; i < 100; i++ {
		hub.Broadcast([]byte("{}"))
	}
	assert.Len(t, ch, cap(ch))
}

func TestRedisPublisherRelay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pub := NewRedisPublisher(client, zap.NewNop())
	hub := NewOccupancyHub()
	ch, unsub := hub.Subscribe()
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pub.Relay(ctx, hub) }()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(constants.OCCUPANCY_CHANNEL)[constants.OCCUPANCY_CHANNEL] == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := model.OccupancyEvent{EventID: "e2", Reason: "room_deleted", Deleted: true, Occupancy: model.Occupancy{RoomID: 9}}
	require.NoError(t, pub.PublishOccupancy(ctx, event))
	assert.Equal(t, event, receive(t, ch))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
