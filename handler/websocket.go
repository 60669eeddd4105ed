package handler

import (
	"context"
	"encoding/json"
	"time"

	"hostel_manager/model"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// RoomFeed sends a snapshot of every room's occupancy, then streams occupancy
// events until the client goes away.
func (h *Handler) RoomFeed(c *websocket.Conn) {
	events, unsubscribe := h.Hub.Subscribe()
	defer func() {
		unsubscribe()
		c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rooms, err := h.Svc.Rooms.ListRooms(ctx)
	cancel()
	if err != nil {
		h.Log.Warn("room feed snapshot", zap.Error(err))
		return
	}
	snapshot := make([]model.Occupancy, 0, len(rooms))
	for _, r := range rooms {
		snapshot = append(snapshot, model.Occupancy{RoomID: r.ID, Assigned: r.Assigned, Capacity: r.Capacity, Occupied: r.Occupied})
	}
	if err := c.WriteJSON(snapshot); err != nil {
		return
	}

	// The read loop only notices the client closing the socket.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if !json.Valid(payload) {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
