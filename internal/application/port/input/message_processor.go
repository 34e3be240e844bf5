package input

import (
	"context"

	"booking-assistant/internal/domain/entity"
)

// MessageProcessor is the single entry point a transport drives. Every call
// returns a reply; collaborator failures are folded into the reply text.
// The error return is reserved for invariant violations in the supplied
// state and indicates a caller bug.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, state *entity.ConversationState, userText string, resetRequested bool) (*entity.ConversationState, string, error)
}
