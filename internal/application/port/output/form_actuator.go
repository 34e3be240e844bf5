package output

import (
	"context"

	"booking-assistant/internal/domain/entity"
)

// FormActuatorPort performs assignments against the live page and then
// executes the submit instruction. A non-nil error is an actuation failure.
type FormActuatorPort interface {
	Submit(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error
}
