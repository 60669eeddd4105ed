package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a referenced entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness or state-consistency violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// CapacityError reports a room that is at or over capacity.
type CapacityError struct {
	RoomID   uint
	Capacity int
	Assigned int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("room %d is at full capacity (%d/%d)", e.RoomID, e.Assigned, e.Capacity)
}

var (
	errStudentHoused    = &ConflictError{Message: "student already has a room"}
	errDuplicatePending = &ConflictError{Message: "duplicate pending request"}
	errAlreadyResolved  = &ConflictError{Message: "booking request is already resolved"}
	errRoomNumberTaken  = &ConflictError{Message: "room number already exists"}
)

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target *CapacityError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
