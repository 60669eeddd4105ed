package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"hostel_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoomRegistry owns room records.
type RoomRegistry struct {
	*core
}

func validateRoom(number string, capacity int) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", &ValidationError{Field: "roomNumber", Message: "must not be blank"}
	}
	if utf8.RuneCountInString(number) > model.RoomNumberMaxLen {
		return "", &ValidationError{Field: "roomNumber", Message: fmt.Sprintf("must be at most %d characters", model.RoomNumberMaxLen)}
	}
	if capacity < model.RoomCapacityMin || capacity > model.RoomCapacityMax {
		return "", &ValidationError{Field: "capacity", Message: fmt.Sprintf("must be between %d and %d", model.RoomCapacityMin, model.RoomCapacityMax)}
	}
	return number, nil
}

func (r *RoomRegistry) numberTaken(tx *gorm.DB, number string, exceptID uint) (bool, error) {
	var n int64
	q := tx.Model(&model.Room{}).Where("room_number = ?", number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RoomRegistry) CreateRoom(ctx context.Context, number string, capacity int) (*model.RoomView, error) {
	number, err := validateRoom(number, capacity)
	if err != nil {
		return nil, err
	}

	room := model.Room{RoomNumber: number, Capacity: capacity}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := r.numberTaken(tx, number, 0)
		if err != nil {
			return err
		}
		if taken {
			return errRoomNumberTaken
		}
		if err := tx.Create(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errRoomNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("room created", zap.Uint("roomId", room.ID), zap.String("roomNumber", room.RoomNumber), zap.Int("capacity", room.Capacity))
	r.publish(ctx, "room_created", model.NewOccupancy(room, 0))
	return roomView(room, 0, []model.Student{})
}

// UpdateRoom changes number and capacity. Lowering capacity below the current count
// evicts nobody; the room stays over capacity and refuses further allocations.
func (r *RoomRegistry) UpdateRoom(ctx context.Context, id uint, number string, capacity int) (*model.RoomView, error) {
	number, err := validateRoom(number, capacity)
	if err != nil {
		return nil, err
	}

	var occ model.Occupancy
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := r.findRoom(tx, id, true)
		if err != nil {
			return err
		}
		if number != room.RoomNumber {
			taken, err := r.numberTaken(tx, number, room.ID)
			if err != nil {
				return err
			}
			if taken {
				return errRoomNumberTaken
			}
		}
		room.RoomNumber = number
		room.Capacity = capacity
		if err := tx.Save(room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errRoomNumberTaken
			}
			return err
		}
		occ, err = r.occupancy(tx, *room)
		return err
	})
	if err != nil {
		return nil, err
	}

	if occ.OverCapacity() {
		r.log.Warn("room capacity below occupancy", zap.Uint("roomId", id), zap.Int64("assigned", occ.Assigned), zap.Int("capacity", occ.Capacity))
	}
	r.publish(ctx, "room_updated", occ)
	return r.GetRoom(ctx, id)
}

// DeleteRoom unassigns every student in the room, drops its booking requests and
// maintenance tickets, then removes the room, all in one transaction.
func (r *RoomRegistry) DeleteRoom(ctx context.Context, id uint) error {
	var unassigned int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockRequests(tx, "room_id = ?", id); err != nil {
			return err
		}
		if _, err := r.findRoom(tx, id, true); err != nil {
			return err
		}
		res := tx.Model(&model.Student{}).Where("room_id = ?", id).Update("room_id", nil)
		if res.Error != nil {
			return fmt.Errorf("unassign students: %w", res.Error)
		}
		unassigned = res.RowsAffected

		if err := tx.Where("room_id = ?", id).Delete(&model.RoomBookingRequest{}).Error; err != nil {
			return fmt.Errorf("delete booking requests: %w", err)
		}
		if err := tx.Where("room_id = ?", id).Delete(&model.MaintenanceRequest{}).Error; err != nil {
			return fmt.Errorf("delete maintenance requests: %w", err)
		}
		if err := tx.Delete(&model.Room{}, id).Error; err != nil {
			return fmt.Errorf("delete room: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("room deleted", zap.Uint("roomId", id), zap.Int64("unassigned", unassigned))
	r.publishDeleted(ctx, id)
	return nil
}

func (r *RoomRegistry) GetOccupancy(ctx context.Context, id uint) (*model.Occupancy, error) {
	db := r.db.WithContext(ctx)
	room, err := r.findRoom(db, id, false)
	if err != nil {
		return nil, err
	}
	occ, err := r.occupancy(db, *room)
	if err != nil {
		return nil, fmt.Errorf("count students in room %d: %w", id, err)
	}
	return &occ, nil
}

func (r *RoomRegistry) GetRoom(ctx context.Context, id uint) (*model.RoomView, error) {
	db := r.db.WithContext(ctx)
	room, err := r.findRoom(db, id, false)
	if err != nil {
		return nil, err
	}
	var members []model.Student
	if err := db.Preload("User").Where("room_id = ?", id).Order("id").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("load students of room %d: %w", id, err)
	}
	return roomView(*room, int64(len(members)), members)
}

func (r *RoomRegistry) ListRooms(ctx context.Context) ([]model.RoomView, error) {
	db := r.db.WithContext(ctx)
	var rooms []model.Room
	if err := db.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var housed []model.Student
	if err := db.Preload("User").Where("room_id IS NOT NULL").Order("id").Find(&housed).Error; err != nil {
		return nil, fmt.Errorf("list housed students: %w", err)
	}
	byRoom := make(map[uint][]model.Student, len(rooms))
	for _, s := range housed {
		byRoom[*s.RoomID] = append(byRoom[*s.RoomID], s)
	}

	out := make([]model.RoomView, 0, len(rooms))
	for _, room := range rooms {
		members := byRoom[room.ID]
		if members == nil {
			members = []model.Student{}
		}
		v, err := roomView(room, int64(len(members)), members)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// OverCapacity lists rooms holding more students than their current capacity.
func (r *RoomRegistry) OverCapacity(ctx context.Context) ([]model.Occupancy, error) {
	db := r.db.WithContext(ctx)
	counts, err := r.assignedCounts(db)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	var rooms []model.Room
	if err := db.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var out []model.Occupancy
	for _, room := range rooms {
		if occ := model.NewOccupancy(room, counts[room.ID]); occ.OverCapacity() {
			out = append(out, occ)
		}
	}
	return out, nil
}
