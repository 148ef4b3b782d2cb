package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// RoleRepository is the single authoritative user -> role mapping.
type RoleRepository interface {
	// Find returns the explicit assignment, or nil when no row exists.
	Find(ctx context.Context, userID string) (*domain.RoleAssignment, error)
	// Upsert overwrites the row or inserts it when absent.
	Upsert(ctx context.Context, assignment *domain.RoleAssignment) error
	// InsertIfAbsent writes the row only when none exists yet.
	InsertIfAbsent(ctx context.Context, assignment *domain.RoleAssignment) error
	ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
}
