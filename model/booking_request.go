package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == BookingApproved || s == BookingRejected || s == BookingCancelled
}

type RoomBookingRequest struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	StudentID    uint          `gorm:"not null;index" json:"studentId"`
	Student      Student       `gorm:"foreignKey:StudentID" json:"-"`
	RoomID       uint          `gorm:"not null;index" json:"roomId"`
	Room         Room          `gorm:"foreignKey:RoomID" json:"-"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	ResolvedAt   *time.Time    `json:"resolvedAt"`
	AdminRemarks *string       `gorm:"type:text" json:"adminRemarks"`
}

type BookingRequestFilter struct {
	StudentID *uint          `query:"studentId"`
	RoomID    *uint          `query:"roomId"`
	Status    *BookingStatus `query:"status"`
}

type ResolveBookingInput struct {
	Status       BookingStatus `query:"status" validate:"required,oneof=APPROVED REJECTED CANCELLED"`
	AdminRemarks *string       `query:"adminRemarks" validate:"omitempty,max=1000"`
}

type BookingRequestView struct {
	ID           uint          `json:"id"`
	StudentID    uint          `json:"studentId"`
	StudentName  string        `json:"studentName"`
	StudentEmail string        `json:"studentEmail"`
	RoomID       uint          `json:"roomId"`
	RoomNumber   string        `json:"roomNumber"`
	RoomCapacity int           `json:"roomCapacity"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	ResolvedAt   *time.Time    `json:"resolvedAt"`
	AdminRemarks *string       `json:"adminRemarks"`
}
