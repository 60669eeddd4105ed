package model

type User struct {
	DTO
	Name     string `gorm:"not null;size:100" json:"name"`
	Email    string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;size:20;index" json:"role"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN STUDENT"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDisplay struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	Message   string `json:"message"`
	Role      string `json:"role"`
	UserID    uint   `json:"userId"`
	StudentID *uint  `json:"studentId"`
	ExpiresAt int64  `json:"expiresAt"`
}
