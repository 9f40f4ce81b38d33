package domain

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:text;not null" json:"full_name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	Role      Role      `gorm:"type:text;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string {
	return "users"
}
