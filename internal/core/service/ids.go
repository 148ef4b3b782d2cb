package service

import (
	"github.com/google/uuid"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// newID returns a time-ordered identifier so that id order follows insertion
// order within the same timestamp.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func requireIdentity(actor domain.Identity) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}
