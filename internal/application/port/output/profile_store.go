package output

import (
	"context"
	"errors"

	"booking-assistant/internal/domain/entity"
)

// ErrProfileNotFound is returned by Lookup when no profile exists for the id.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileStorePort interface {
	Lookup(ctx context.Context, id string) (*entity.UserProfile, error)
}
