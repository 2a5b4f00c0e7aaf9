package usecase

import (
	"context"
	"fmt"

	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"
)

// NewNotifier builds a new notifier.
func NewNotifier(sender ports.Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Notifier adapts CDC events on the comment table to a public-facing event.
// It publicly 'notifies' about thread changes.
type Notifier struct {
	sender ports.Sender
}

func (n *Notifier) Handle(ctx context.Context, event model.CommentEvent) error {

	// 1. hidden content stays hidden: the text of a soft-deleted comment is
	// not re-published.
	// 2. moderator addresses are internal and are stripped before leaving
	// the service.
	event.Before = scrub(event.Before)
	event.After = scrub(event.After)

	// this happens e.g. when only internal columns changed
	if eventsAreEqual(event.Before, event.After) {
		return nil
	}

	if err := n.sender.Send(ctx, event); err != nil {
		return fmt.Errorf("error sending comment event ID [%s]: %w", event.ID, err)
	}

	return nil
}

func scrub(comment *model.Comment) *model.Comment {
	if comment == nil || comment.Deletion == nil {
		return comment
	}
	scrubbed := *comment
	scrubbed.Text = ""
	scrubbed.Deletion = &model.Deletion{At: comment.Deletion.At}
	return &scrubbed
}

func eventsAreEqual(before *model.Comment, after *model.Comment) bool {
	if before == nil && after == nil {
		return true
	}
	if before == nil || after == nil {
		return false
	}
	if before.ID != after.ID ||
		before.JobID != after.JobID ||
		before.Author != after.Author ||
		before.Text != after.Text ||
		!before.CreatedAt.Equal(after.CreatedAt) {
		return false
	}
	if (before.Deletion == nil) != (after.Deletion == nil) {
		return false
	}
	if before.Deletion == nil {
		return true
	}
	return before.Deletion.By == after.Deletion.By && before.Deletion.At.Equal(after.Deletion.At)
}
