package model

import "time"

type Role int

const (
	RoleAdmin    Role = 1
	RoleUser     Role = 2
	RoleEmployer Role = 3
	RoleEmployee Role = 4
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleEmployee
}

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null" json:"lastName"`
	Role      Role      `gorm:"not null" json:"role"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
