package model

const (
	RoomNumberMaxLen = 50
	RoomCapacityMin  = 1
	RoomCapacityMax  = 100
)

// Room has no stored occupancy; it is always derived from the students assigned to it.
type Room struct {
	DTO
	RoomNumber string `gorm:"uniqueIndex;not null;size:50" json:"roomNumber"`
	Capacity   int    `gorm:"not null" json:"capacity"`
}

type RoomInput struct {
	RoomNumber string `json:"roomNumber" validate:"required,max=50"`
	Capacity   int    `json:"capacity" validate:"required,min=1,max=100"`
}

type Occupancy struct {
	RoomID   uint  `json:"roomId"`
	Assigned int64 `json:"assigned"`
	Capacity int   `json:"capacity"`
	Occupied bool  `json:"occupied"`
}

func NewOccupancy(room Room, assigned int64) Occupancy {
	return Occupancy{
		RoomID:   room.ID,
		Assigned: assigned,
		Capacity: room.Capacity,
		Occupied: assigned >= int64(room.Capacity),
	}
}

func (o Occupancy) OverCapacity() bool { return o.Assigned > int64(o.Capacity) }

type RoomView struct {
	ID         uint             `json:"id"`
	RoomNumber string           `json:"roomNumber"`
	Capacity   int              `json:"capacity"`
	Assigned   int64            `json:"assigned"`
	Occupied   bool             `json:"occupied"`
	Students   []StudentSummary `json:"students,omitempty"`
}

// OccupancyEvent is published after every committed change to a room's membership.
type OccupancyEvent struct {
	EventID   string    `json:"eventId"`
	Reason    string    `json:"reason"`
	Occupancy Occupancy `json:"occupancy"`
	Deleted   bool      `json:"deleted,omitempty"`
}
