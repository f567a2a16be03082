package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;default:'customer';not null" json:"role"`
	LoginMethod  string    `gorm:"size:20;default:'local';not null" json:"login_method"`
	RegisteredAt time.Time `gorm:"not null;autoCreateTime" json:"registered_at"`
}

func (u *User) TableName() string {
	return "users"
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	LoginMethodLocal  = "local"
	LoginMethodGoogle = "google"
)

// UserPatch holds the admin-editable user fields. Nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Email *string `json:"email" validate:"omitempty,email,min=5,max=254"`
	Role  *string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// Apply copies every non-nil field of the patch onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
