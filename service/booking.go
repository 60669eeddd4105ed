package service

import (
	"context"
	"fmt"
	"strings"

	"hostel_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookingWorkflow is the PENDING -> APPROVED | REJECTED | CANCELLED state machine
// for room booking requests. Approval commits the allocation in the same transaction.
type BookingWorkflow struct {
	*core
	allocation *AllocationService
}

func (b *BookingWorkflow) findRequest(tx *gorm.DB, id uint, lock bool) (*model.RoomBookingRequest, error) {
	q := tx
	if lock {
		q = forUpdate(tx)
	}
	var req model.RoomBookingRequest
	if err := q.First(&req, id).Error; err != nil {
		return nil, notFound(err, "booking request", id)
	}
	return &req, nil
}

func (b *BookingWorkflow) CreateRequest(ctx context.Context, studentID, roomID uint) (*model.BookingRequestView, error) {
	var req model.RoomBookingRequest
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The student lock serialises concurrent requests from the same student.
		student, err := b.findStudent(tx, studentID, true)
		if err != nil {
			return err
		}
		room, err := b.findRoom(tx, roomID, false)
		if err != nil {
			return err
		}
		if student.Housed() {
			return errStudentHoused
		}
		assigned, err := b.countAssigned(tx, room.ID)
		if err != nil {
			return fmt.Errorf("count students in room %d: %w", room.ID, err)
		}
		if assigned >= int64(room.Capacity) {
			return &CapacityError{RoomID: room.ID, Capacity: room.Capacity, Assigned: assigned}
		}
		var pending int64
		err = tx.Model(&model.RoomBookingRequest{}).
			Where("student_id = ? AND room_id = ? AND status = ?", studentID, roomID, model.BookingPending).
			Count(&pending).Error
		if err != nil {
			return fmt.Errorf("check pending requests: %w", err)
		}
		if pending > 0 {
			return errDuplicatePending
		}

		req = model.RoomBookingRequest{
			StudentID: studentID,
			RoomID:    roomID,
			Status:    model.BookingPending,
			CreatedAt: b.now(),
		}
		if err := tx.Create(&req).Error; err != nil {
			return fmt.Errorf("create booking request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.log.Info("booking request created", zap.Uint("requestId", req.ID), zap.Uint("studentId", studentID), zap.Uint("roomId", roomID))
	return b.GetRequest(ctx, req.ID)
}

// ResolveRequest moves a PENDING request to a terminal status. Resolving an already
// terminal request is a ConflictError. When approval cannot allocate the seat the
// request stays PENDING.
func (b *BookingWorkflow) ResolveRequest(ctx context.Context, requestID uint, status model.BookingStatus, remarks *string) (*model.BookingRequestView, error) {
	if !status.Terminal() {
		return nil, &ValidationError{Field: "status", Message: "must be one of APPROVED, REJECTED, CANCELLED"}
	}
	if remarks != nil {
		trimmed := strings.TrimSpace(*remarks)
		if trimmed == "" {
			remarks = nil
		} else {
			remarks = &trimmed
		}
	}

	var changed []model.Occupancy
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = b.resolveLocked(tx, requestID, status, remarks)
		return err
	})
	if err != nil {
		return nil, err
	}

	b.log.Info("booking request resolved", zap.Uint("requestId", requestID), zap.String("status", string(status)))
	b.publish(ctx, "booking_approved", changed...)

	view, err := b.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if status != model.BookingCancelled {
		b.notify(ctx, view)
	}
	return view, nil
}

// resolveLocked applies the decision inside tx, locking request, room and student in
// that order.
func (b *BookingWorkflow) resolveLocked(tx *gorm.DB, requestID uint, status model.BookingStatus, remarks *string) ([]model.Occupancy, error) {
	req, err := b.findRequest(tx, requestID, true)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, errAlreadyResolved
	}

	var changed []model.Occupancy
	if status == model.BookingApproved {
		room, err := b.findRoom(tx, req.RoomID, true)
		if err != nil {
			return nil, err
		}
		student, err := b.findStudent(tx, req.StudentID, true)
		if err != nil {
			return nil, err
		}
		if student.Housed() && *student.RoomID != room.ID {
			return nil, errStudentHoused
		}
		if changed, err = b.allocation.allocateLocked(tx, room, student); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{"status": status, "admin_remarks": remarks}
	if status != model.BookingCancelled {
		updates["resolved_at"] = b.now()
	}
	if err := tx.Model(req).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("resolve booking request %d: %w", requestID, err)
	}
	return changed, nil
}

func (b *BookingWorkflow) notify(ctx context.Context, view *model.BookingRequestView) {
	var student model.Student
	if err := b.db.WithContext(ctx).Preload("User").First(&student, view.StudentID).Error; err != nil {
		b.log.Warn("load student for notification", zap.Uint("studentId", view.StudentID), zap.Error(err))
		return
	}
	to, err := userDisplay(student.User)
	if err != nil {
		b.log.Warn("map student for notification", zap.Error(err))
		return
	}
	b.notifier.BookingResolved(ctx, to, *view)
}

// CancelRequest lets a student withdraw their own pending request.
func (b *BookingWorkflow) CancelRequest(ctx context.Context, requestID, studentID uint) (*model.BookingRequestView, error) {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := b.findRequest(tx, requestID, true)
		if err != nil {
			return err
		}
		if req.StudentID != studentID {
			return &ConflictError{Message: "booking request belongs to another student"}
		}
		if req.Status.Terminal() {
			return errAlreadyResolved
		}
		return tx.Model(req).Update("status", model.BookingCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	b.log.Info("booking request cancelled", zap.Uint("requestId", requestID), zap.Uint("studentId", studentID))
	return b.GetRequest(ctx, requestID)
}

func (b *BookingWorkflow) GetRequest(ctx context.Context, id uint) (*model.BookingRequestView, error) {
	var req model.RoomBookingRequest
	err := b.db.WithContext(ctx).Preload("Student.User").Preload("Room").First(&req, id).Error
	if err != nil {
		return nil, notFound(err, "booking request", id)
	}
	return bookingView(req)
}

// ListRequests returns requests matching the filter, newest first.
func (b *BookingWorkflow) ListRequests(ctx context.Context, filter model.BookingRequestFilter) ([]model.BookingRequestView, error) {
	q := b.db.WithContext(ctx).Preload("Student.User").Preload("Room")
	if filter.StudentID != nil {
		q = q.Where("student_id = ?", *filter.StudentID)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	var reqs []model.RoomBookingRequest
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list booking requests: %w", err)
	}
	out := make([]model.BookingRequestView, 0, len(reqs))
	for _, r := range reqs {
		v, err := bookingView(r)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (b *BookingWorkflow) DeleteRequest(ctx context.Context, id uint) error {
	res := b.db.WithContext(ctx).Delete(&model.RoomBookingRequest{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete booking request %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "booking request", ID: id}
	}
	return nil
}

// PendingForFullRooms lists PENDING requests whose room has no free seat left.
func (b *BookingWorkflow) PendingForFullRooms(ctx context.Context) ([]model.BookingRequestView, error) {
	db := b.db.WithContext(ctx)
	counts, err := b.assignedCounts(db)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	pending := model.BookingPending
	reqs, err := b.ListRequests(ctx, model.BookingRequestFilter{Status: &pending})
	if err != nil {
		return nil, err
	}
	var out []model.BookingRequestView
	for _, r := range reqs {
		if counts[r.RoomID] >= int64(r.RoomCapacity) {
			out = append(out, r)
		}
	}
	return out, nil
}
