package model

// Student is the hostel-side record of a STUDENT user. RoomID nil means unhoused.
type Student struct {
	DTO
	UserID uint  `gorm:"uniqueIndex;not null" json:"userId"`
	User   User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	RoomID *uint `gorm:"index" json:"roomId"`
	Room   *Room `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (s Student) Housed() bool { return s.RoomID != nil }

type StudentSummary struct {
	ID   uint        `json:"id"`
	User UserDisplay `json:"user"`
}

type StudentView struct {
	ID   uint        `json:"id"`
	User UserDisplay `json:"user"`
	Room *RoomView   `json:"room"`
}
