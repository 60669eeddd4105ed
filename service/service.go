// Package service holds the room-occupancy and booking-request workflow. Every
// operation that reads a room's assigned count and then changes it does so inside
// one transaction holding the room row lock.
package service

import (
	"context"
	"fmt"
	"time"

	"hostel_manager/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Publisher receives occupancy changes after they are committed.
type Publisher interface {
	PublishOccupancy(ctx context.Context, event model.OccupancyEvent) error
}

// Notifier is told about admin decisions on booking requests after commit.
type Notifier interface {
	BookingResolved(ctx context.Context, to model.UserDisplay, request model.BookingRequestView)
}

type nopPublisher struct{}

func (nopPublisher) PublishOccupancy(context.Context, model.OccupancyEvent) error { return nil }

type nopNotifier struct{}

func (nopNotifier) BookingResolved(context.Context, model.UserDisplay, model.BookingRequestView) {}

type core struct {
	db        *gorm.DB
	log       *zap.Logger
	publisher Publisher
	notifier  Notifier
	now       func() time.Time
}

type Option func(*core)

func WithPublisher(p Publisher) Option {
	return func(c *core) {
		if p != nil {
			c.publisher = p
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *core) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

type Service struct {
	Rooms      *RoomRegistry
	Students   *StudentDirectory
	Allocation *AllocationService
	Bookings   *BookingWorkflow
}

func New(db *gorm.DB, log *zap.Logger, opts ...Option) *Service {
	c := &core{
		db:        db,
		log:       log,
		publisher: nopPublisher{},
		notifier:  nopNotifier{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	allocation := &AllocationService{core: c}
	return &Service{
		Rooms:      &RoomRegistry{core: c},
		Students:   &StudentDirectory{core: c},
		Allocation: allocation,
		Bookings:   &BookingWorkflow{core: c, allocation: allocation},
	}
}

// forUpdate adds a row lock on dialects that have one. SQLite has a single writer,
// so its transactions are already serialised.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (c *core) findRoom(tx *gorm.DB, id uint, lock bool) (*model.Room, error) {
	q := tx
	if lock {
		q = forUpdate(tx)
	}
	var room model.Room
	if err := q.First(&room, id).Error; err != nil {
		return nil, notFound(err, "room", id)
	}
	return &room, nil
}

func (c *core) findStudent(tx *gorm.DB, id uint, lock bool) (*model.Student, error) {
	q := tx
	if lock {
		q = forUpdate(tx)
	}
	var student model.Student
	if err := q.First(&student, id).Error; err != nil {
		return nil, notFound(err, "student", id)
	}
	return &student, nil
}

// lockRequests locks the booking requests matching query ahead of any room or student
// row, keeping the request → room → student order ResolveRequest uses.
func (c *core) lockRequests(tx *gorm.DB, query string, id uint) error {
	var ids []uint
	err := forUpdate(tx).Model(&model.RoomBookingRequest{}).Where(query, id).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("lock booking requests: %w", err)
	}
	return nil
}

func (c *core) countAssigned(tx *gorm.DB, roomID uint) (int64, error) {
	var n int64
	err := tx.Model(&model.Student{}).Where("room_id = ?", roomID).Count(&n).Error
	return n, err
}

func (c *core) occupancy(tx *gorm.DB, room model.Room) (model.Occupancy, error) {
	n, err := c.countAssigned(tx, room.ID)
	if err != nil {
		return model.Occupancy{}, err
	}
	return model.NewOccupancy(room, n), nil
}

// assignedCounts returns the number of students per housed room.
func (c *core) assignedCounts(tx *gorm.DB) (map[uint]int64, error) {
	var rows []struct {
		RoomID uint
		N      int64
	}
	err := tx.Model(&model.Student{}).
		Select("room_id, COUNT(*) AS n").
		Where("room_id IS NOT NULL").
		Group("room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.RoomID] = r.N
	}
	return counts, nil
}

func (c *core) publish(ctx context.Context, reason string, changes ...model.Occupancy) {
	for _, occ := range changes {
		event := model.OccupancyEvent{EventID: uuid.NewString(), Reason: reason, Occupancy: occ}
		if err := c.publisher.PublishOccupancy(ctx, event); err != nil {
			c.log.Warn("publish occupancy failed", zap.Uint("roomId", occ.RoomID), zap.String("reason", reason), zap.Error(err))
		}
	}
}

func (c *core) publishDeleted(ctx context.Context, roomID uint) {
	event := model.OccupancyEvent{EventID: uuid.NewString(), Reason: "room_deleted", Deleted: true, Occupancy: model.Occupancy{RoomID: roomID}}
	if err := c.publisher.PublishOccupancy(ctx, event); err != nil {
		c.log.Warn("publish occupancy failed", zap.Uint("roomId", roomID), zap.Error(err))
	}
}
