package ports

import (
	"context"

	"vacancyboard/internal/core/model"
)

// Sender is the port for publishing outbound comment-events.
type Sender interface {
	// Send sends comment-event data.
	Send(ctx context.Context, event model.CommentEvent) error
}
