package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleStudent, RoleProfessor:
		return true
	default:
		return false
	}
}

type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	StudentNumber string    `json:"studentId,omitempty"`  // students only
	Department    string    `json:"department,omitempty"` // professors only
	IsActive      bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
