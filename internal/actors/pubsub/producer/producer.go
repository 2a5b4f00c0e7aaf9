package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"vacancyboard/internal/core/model"
)

// NewProducer creates a new producer.
func NewProducer(topic *pubsub.Topic) (*Producer, error) {
	if topic == nil {
		return nil, errors.New("topic is nil")
	}
	return &Producer{topic: topic}, nil
}

// Producer is the pubsub producer of public comment events.
type Producer struct {
	topic *pubsub.Topic
}

func (p *Producer) Send(ctx context.Context, event model.CommentEvent) error {
	data, err := json.Marshal(toWireEvent(event))
	if err != nil {
		return fmt.Errorf("error marshaling comment-event message: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
	})
	// Block until the result is returned and a server-generated
	// ID is returned for the published message.
	_, err = result.Get(ctx)
	if err != nil {
		return fmt.Errorf("pubsub: result.Get: %v", err)
	}
	return nil
}

type wireEvent struct {
	ID     string       `json:"id"`
	Before *wireComment `json:"before,omitempty"`
	After  *wireComment `json:"after,omitempty"`
}

type wireComment struct {
	ID        string     `json:"comment_id"`
	JobID     string     `json:"job_id"`
	Author    string     `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedBy string     `json:"deleted_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toWireEvent(event model.CommentEvent) wireEvent {
	return wireEvent{
		ID:     event.ID,
		Before: toWireComment(event.Before),
		After:  toWireComment(event.After),
	}
}

func toWireComment(c *model.Comment) *wireComment {
	if c == nil {
		return nil
	}

	wire := &wireComment{
		ID:        c.ID.String(),
		JobID:     c.JobID,
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.Deletion != nil {
		wire.DeletedBy = c.Deletion.By
		at := c.Deletion.At
		wire.DeletedAt = &at
	}
	return wire
}
