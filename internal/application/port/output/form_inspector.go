package output

import (
	"context"

	"booking-assistant/internal/domain/entity"
)

// FormInspectorPort observes a booking page and reports the form fields it
// finds. An empty result means inspection failed as far as the
// orchestrator is concerned.
type FormInspectorPort interface {
	Inspect(ctx context.Context, url string) ([]entity.FormField, error)
}
