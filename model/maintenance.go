package model

import "time"

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "PENDING"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"
)

type MaintenanceRequest struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	RoomID      uint              `gorm:"not null;index" json:"roomId"`
	Room        Room              `gorm:"foreignKey:RoomID" json:"-"`
	StudentID   uint              `gorm:"not null;index" json:"studentId"`
	Student     Student           `gorm:"foreignKey:StudentID" json:"-"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Status      MaintenanceStatus `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	ResolvedAt  *time.Time        `json:"resolvedAt"`
	Remarks     *string           `gorm:"type:text" json:"remarks"`
}

type CreateMaintenanceInput struct {
	RoomID      uint   `json:"roomId" validate:"required"`
	Description string `json:"description" validate:"required,max=2000"`
}

type UpdateMaintenanceInput struct {
	Status  MaintenanceStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Remarks *string           `json:"remarks" validate:"omitempty,max=1000"`
}

type MaintenanceFilter struct {
	RoomID *uint              `query:"roomId"`
	Status *MaintenanceStatus `query:"status"`
}

type MaintenanceView struct {
	ID          uint              `json:"id"`
	RoomID      uint              `json:"roomId"`
	RoomNumber  string            `json:"roomNumber"`
	StudentID   uint              `json:"studentId"`
	StudentName string            `json:"studentName"`
	Description string            `json:"description"`
	Status      MaintenanceStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	ResolvedAt  *time.Time        `json:"resolvedAt"`
	Remarks     *string           `json:"remarks"`
}
