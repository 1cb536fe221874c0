package domain

import (
	"time"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsAdminTier 判断该角色是否属于管理员层级
func (r Role) IsAdminTier() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type UserStatus string

const (
	StatusInactive UserStatus = "INACTIVE"
	StatusInvited  UserStatus = "INVITED"
	StatusActive   UserStatus = "ACTIVE"
)

type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Role          Role       `json:"role"`
	Status        UserStatus `json:"status"`
	EmailVerified bool       `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	Version       int32      `json:"-"`

	// 根据角色最多只会存在其中一个档案
	StudentProfile *StudentProfile `json:"studentProfile,omitempty"`
	AdminProfile   *AdminProfile   `json:"adminProfile,omitempty"`
}

type StudentProfile struct {
	Branch             string `json:"branch"`
	RegistrationNumber int64  `json:"registrationNumber"`
	Year               string `json:"year"`
}

type AdminProfile struct {
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
}
