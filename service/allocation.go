package service

import (
	"context"
	"fmt"

	"hostel_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AllocationService commits student to room assignments.
type AllocationService struct {
	*core
}

// allocateLocked assigns student to room. The caller holds the room lock (and the
// student lock) inside tx. It returns the occupancy of every room that changed.
func (a *AllocationService) allocateLocked(tx *gorm.DB, room *model.Room, student *model.Student) ([]model.Occupancy, error) {
	if student.RoomID != nil && *student.RoomID == room.ID {
		return nil, nil
	}
	assigned, err := a.countAssigned(tx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("count students in room %d: %w", room.ID, err)
	}
	if assigned >= int64(room.Capacity) {
		return nil, &CapacityError{RoomID: room.ID, Capacity: room.Capacity, Assigned: assigned}
	}

	// Copied by value: the update below writes through student.RoomID.
	var previous *uint
	if student.RoomID != nil {
		from := *student.RoomID
		previous = &from
	}
	if err := tx.Model(student).Update("room_id", room.ID).Error; err != nil {
		return nil, fmt.Errorf("assign student %d to room %d: %w", student.ID, room.ID, err)
	}
	student.RoomID = &room.ID

	changed := []model.Occupancy{model.NewOccupancy(*room, assigned+1)}
	if previous != nil {
		old, err := a.findRoom(tx, *previous, false)
		if err != nil {
			return nil, err
		}
		occ, err := a.occupancy(tx, *old)
		if err != nil {
			return nil, err
		}
		changed = append(changed, occ)
	}
	return changed, nil
}

// Allocate puts the student into the room. A student already in the room is left
// alone; one housed elsewhere is moved.
func (a *AllocationService) Allocate(ctx context.Context, roomID, studentID uint) (*model.Occupancy, error) {
	var changed []model.Occupancy
	var result model.Occupancy
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := a.findRoom(tx, roomID, true)
		if err != nil {
			return err
		}
		student, err := a.findStudent(tx, studentID, true)
		if err != nil {
			return err
		}
		changed, err = a.allocateLocked(tx, room, student)
		if err != nil {
			return err
		}
		result, err = a.occupancy(tx, *room)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		a.log.Info("student allocated", zap.Uint("roomId", roomID), zap.Uint("studentId", studentID), zap.Int64("assigned", result.Assigned))
		a.publish(ctx, "student_allocated", changed...)
	}
	return &result, nil
}

// Deallocate empties the room. An already empty room is a no-op.
func (a *AllocationService) Deallocate(ctx context.Context, roomID uint) (*model.Occupancy, error) {
	var result model.Occupancy
	var removed int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := a.findRoom(tx, roomID, true)
		if err != nil {
			return err
		}
		res := tx.Model(&model.Student{}).Where("room_id = ?", roomID).Update("room_id", nil)
		if res.Error != nil {
			return fmt.Errorf("deallocate room %d: %w", roomID, res.Error)
		}
		removed = res.RowsAffected
		result = model.NewOccupancy(*room, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed > 0 {
		a.log.Info("room deallocated", zap.Uint("roomId", roomID), zap.Int64("removed", removed))
		a.publish(ctx, "room_deallocated", result)
	}
	return &result, nil
}

// DeallocateStudent removes one student from the room they are in.
func (a *AllocationService) DeallocateStudent(ctx context.Context, roomID, studentID uint) (*model.Occupancy, error) {
	var result model.Occupancy
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := a.findRoom(tx, roomID, true)
		if err != nil {
			return err
		}
		student, err := a.findStudent(tx, studentID, true)
		if err != nil {
			return err
		}
		if student.RoomID == nil || *student.RoomID != roomID {
			return &ConflictError{Message: fmt.Sprintf("student %d is not in room %d", studentID, roomID)}
		}
		if err := tx.Model(student).Update("room_id", nil).Error; err != nil {
			return fmt.Errorf("deallocate student %d: %w", studentID, err)
		}
		result, err = a.occupancy(tx, *room)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("student deallocated", zap.Uint("roomId", roomID), zap.Uint("studentId", studentID))
	a.publish(ctx, "student_deallocated", result)
	return &result, nil
}
