package output

import (
	"context"

	"booking-assistant/internal/domain/entity"
)

// FieldMapping is the mapper's reconciliation of user data against the
// observed fields: assignments for fields it could satisfy, and the
// labels of required fields it could not.
type FieldMapping struct {
	Assignments   []entity.FieldAssignment
	MissingLabels []string
}

type FieldMapperPort interface {
	Map(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*FieldMapping, error)
}
