package helper

import (
	"context"
	"fmt"
	"time"

	"hostel_manager/model"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// RoomAuditor finds rooms holding more students than their capacity.
type RoomAuditor interface {
	OverCapacity(ctx context.Context) ([]model.Occupancy, error)
}

// BookingAuditor finds pending requests whose room has no free seat.
type BookingAuditor interface {
	PendingForFullRooms(ctx context.Context) ([]model.BookingRequestView, error)
}

type AuditReport struct {
	OverCapacity []model.Occupancy
	Blocked      []model.BookingRequestView
}

// RunOccupancyAudit logs rooms that hold more students than their capacity and
// pending requests that can no longer be approved because their room is full.
func RunOccupancyAudit(ctx context.Context, rooms RoomAuditor, bookings BookingAuditor, log *zap.Logger) (AuditReport, error) {
	var report AuditReport
	over, err := rooms.OverCapacity(ctx)
	if err != nil {
		return report, fmt.Errorf("over capacity rooms: %w", err)
	}
	report.OverCapacity = over
	for _, occ := range over {
		log.Warn("room over capacity",
			zap.Uint("roomId", occ.RoomID),
			zap.Int64("assigned", occ.Assigned),
			zap.Int("capacity", occ.Capacity))
	}

	blocked, err := bookings.PendingForFullRooms(ctx)
	if err != nil {
		return report, fmt.Errorf("pending requests for full rooms: %w", err)
	}
	report.Blocked = blocked
	for _, r := range blocked {
		log.Warn("pending request targets full room",
			zap.Uint("requestId", r.ID),
			zap.Uint("roomId", r.RoomID),
			zap.String("roomNumber", r.RoomNumber),
			zap.Uint("studentId", r.StudentID))
	}

	log.Info("occupancy audit finished", zap.Int("overCapacity", len(over)), zap.Int("blocked", len(blocked)))
	return report, nil
}

// StartAuditScheduler runs the occupancy audit every day at hour:minute local time.
func StartAuditScheduler(rooms RoomAuditor, bookings BookingAuditor, log *zap.Logger, hour, minute uint) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(hour, minute, 0),
			),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := RunOccupancyAudit(ctx, rooms, bookings, log); err != nil {
				log.Error("occupancy audit failed", zap.Error(err))
			}
		}),
		gocron.WithName("occupancy-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule audit: %w", err)
	}

	s.Start()
	log.Info("occupancy audit scheduled", zap.String("at", fmt.Sprintf("%02d:%02d", hour, minute)))
	return s, nil
}
