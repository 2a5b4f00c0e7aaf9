package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is a pubsub subscription
	Subscription *pubsub.Subscription

	// CommentEventHandler is a event handler
	CommentEventHandler ports.CommentEventHandler
}

// Subscriber is a pubsub async subscriber
type Subscriber struct {
	subscription        *pubsub.Subscription
	commentEventHandler ports.CommentEventHandler
}

// NewSubscriber creates a subscriber
func NewSubscriber(args SubscriberArgs) *Subscriber {
	return &Subscriber{
		subscription:        args.Subscription,
		commentEventHandler: args.CommentEventHandler,
	}
}

// Consume starts the subscriber. This is a blocking method and should be started in it's own go-routine.
// The way to terminate the method is to cancel the context in input.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {

		commentEvent, err := decodeMsgIntoCommentEvent(msg)
		if err != nil {
			if errors.Is(err, ErrIgnoreEvent) {
				msg.Ack()
				return
			}
			log.WithError(err).Error("error decoding message into comment-event")
			msg.Nack()
			return
		}

		if err := s.commentEventHandler.Handle(ctx, *commentEvent); err != nil {
			log.WithError(err).Error("error in comment event handler")
			msg.Nack()
		} else {
			msg.Ack()
		}
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

var (
	ErrIgnoreEvent = errors.New("event should be ignored")
)

func decodeMsgIntoCommentEvent(msg *pubsub.Message) (*model.CommentEvent, error) {
	if msg == nil {
		return nil, errors.New("cannot decode nil pubsub msg")
	}
	debeziumMsg := new(debeziumMessage)
	if err := json.Unmarshal(msg.Data, debeziumMsg); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	if debeziumMsg.Payload.Source.Table != "comments" {
		return nil, ErrIgnoreEvent
	}

	commentEvent := new(model.CommentEvent)
	commentEvent.ID = msg.ID
	commentBefore, err := translateCommentToModel(debeziumMsg.Payload.Before)
	if err != nil {
		return nil, ErrIgnoreEvent
	}
	commentEvent.Before = commentBefore
	commentAfter, err := translateCommentToModel(debeziumMsg.Payload.After)
	if err != nil {
		return nil, ErrIgnoreEvent
	}
	commentEvent.After = commentAfter

	return commentEvent, nil
}

func translateCommentToModel(dbzComment *debeziumComment) (*model.Comment, error) {
	if dbzComment == nil {
		return nil, nil
	}
	id, err := uuid.Parse(dbzComment.ID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:        id,
		JobID:     dbzComment.JobID,
		Author:    dbzComment.Author,
		Text:      dbzComment.Text,
		CreatedAt: dbzComment.CreatedAt.Time,
	}
	if dbzComment.DeletedBy != nil {
		deletion := model.Deletion{By: *dbzComment.DeletedBy}
		if dbzComment.DeletedAt != nil {
			deletion.At = dbzComment.DeletedAt.Time
		}
		comment.Deletion = &deletion
	}

	return comment, nil
}

type debeziumMessage struct {
	// Payload is the debezium segment containing the payload.
	Payload payload `json:"payload"`
}

type payload struct {
	Op     string           `json:"op"`
	Source source           `json:"source"`
	Before *debeziumComment `json:"before"`
	After  *debeziumComment `json:"after"`
}

type source struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

type debeziumComment struct {
	ID        string    `json:"comment_id"`
	JobID     string    `json:"job_id"`
	Author    string    `json:"author"`
	Text      string    `json:"comment_text"`
	CreatedAt UnixTime  `json:"created_at"`
	DeletedBy *string   `json:"deleted_by"`
	DeletedAt *UnixTime `json:"deleted_at"`
}

// UnixTime is a custom type to allow us to redefine how to unmarshal from microseconds from epoch to time.Time
type UnixTime struct {
	time.Time
}

func (ut *UnixTime) UnmarshalJSON(b []byte) error {
	var timestamp int64
	err := json.Unmarshal(b, &timestamp)
	if err != nil {
		return err
	}
	ut.Time = time.Unix(0, timestamp*1000).UTC()
	return nil
}

func (ut UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(ut.UnixNano()/1000, 10)), nil
}
