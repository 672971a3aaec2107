package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
	RoleCustomer   Role = "customer"
)

// AdminRoles are the roles allowed into the back office.
var AdminRoles = []Role{RoleSuperAdmin, RoleManager, RoleStaff}

func (r Role) IsAdmin() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// User is a customer profile plus credentials. Admin capability is not
// stored here; it comes from user_roles rows.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex:idx_users_email;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	FullName     string         `json:"full_name"`
	Phone        string         `json:"phone"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	IsVIP        bool           `gorm:"default:false" json:"is_vip"`
	IsBlocked    bool           `gorm:"default:false" json:"is_blocked"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Roles  []UserRole `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	Orders []Order    `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserRole grants an admin role to a user. A user without rows here is a
// plain customer. This table is the authorization source of truth; any
// role flag the storefront caches is a UX hint only.
type UserRole struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role      Role      `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
