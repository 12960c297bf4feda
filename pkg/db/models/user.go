package models

import "time"

// User is the account an order may be attached to. Authentication issues
// tokens against this row; guests check out with a nil Order.UserID.
type User struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"column:name;size:255;not null" json:"name"`
	Email        string  `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string  `gorm:"column:role;size:20;not null;default:'customer'" json:"role"`
	Phone        *string `gorm:"column:phone;size:20" json:"phone"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
