package domain

import "time"

// Role governs coarse-grained capability.
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleAdmin   Role = "admin"
)

// DefaultRole is what a user holds when no assignment row exists. Absence of
// a row never implies elevated privilege.
const DefaultRole = RoleStudent

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleAlumni, RoleAdmin:
		return r, nil
	}
	return "", ErrInvalidRole
}

// RoleAssignment is the single active role row of a user.
type RoleAssignment struct {
	UserID    string    `json:"user_id" bson:"_id"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
