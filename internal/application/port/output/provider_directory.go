package output

import (
	"context"

	"booking-assistant/internal/domain/entity"
)

// ProviderDirectoryPort returns ranked provider recommendations. Both
// arguments may be empty; the result holds at most five providers, best
// match first. Ranking must be a pure function of its inputs so that a
// later call with the same arguments reproduces the list shown to the user.
type ProviderDirectoryPort interface {
	Recommend(ctx context.Context, insurance, location string) ([]entity.Provider, error)
}
