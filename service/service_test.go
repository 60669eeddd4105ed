package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"hostel_manager/model"
	"hostel_manager/testutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recorder struct {
	mu        sync.Mutex
	events    []model.OccupancyEvent
	decisions []model.BookingRequestView
	mailedTo  []string
}

func (r *recorder) PublishOccupancy(_ context.Context, event model.OccupancyEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) BookingResolved(_ context.Context, to model.UserDisplay, request model.BookingRequestView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mailedTo = append(r.mailedTo, to.Email)
	r.decisions = append(r.decisions, request)
}

func (r *recorder) eventsFor(roomID uint) []model.OccupancyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OccupancyEvent
	for _, e := range r.events {
		if e.Occupancy.RoomID == roomID {
			out = append(out, e)
		}
	}
	return out
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recorder) {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &recorder{}
	svc := New(db, zap.NewNop(), WithPublisher(rec), WithNotifier(rec), WithClock(stepClock()))
	return svc, db, rec
}
