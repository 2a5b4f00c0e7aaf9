package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vacancyboard/internal/core/model"
)

// MockSender is a mock implementation of the Sender interface.
type MockSender struct {
	t                     *testing.T
	called                bool
	CommentEventAssertion func(t *testing.T, event model.CommentEvent)
	SendError             error
}

func (m *MockSender) Send(ctx context.Context, event model.CommentEvent) error {
	m.called = true
	if m.CommentEventAssertion != nil {
		m.CommentEventAssertion(m.t, event)
	}
	return m.SendError
}

func TestNotifier_Handle(t *testing.T) {
	sendingError := errors.New("sending error")
	commentID := uuid.New()
	createdAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	deletedAt := createdAt.Add(time.Hour)

	tests := []struct {
		name                  string
		event                 model.CommentEvent
		commentEventAssertion func(t *testing.T, event model.CommentEvent)
		sendError             error
		callsSendMethod       bool
		expectedError         func(t *testing.T, err error)
	}{
		{
			name: "comment creation",
			event: model.CommentEvent{
				ID: "1",
				After: &model.Comment{
					ID: commentID, JobID: "J1", Author: model.AnonymousAuthor,
					Text: "Great role!", CreatedAt: createdAt,
				},
			},
			commentEventAssertion: func(t *testing.T, event model.CommentEvent) {
				require.Nil(t, event.Before)
				require.NotNil(t, event.After)
				require.Equal(t, "Great role!", event.After.Text)
			},
			callsSendMethod: true,
		},
		{
			name: "moderation hides text and strips the moderator address",
			event: model.CommentEvent{
				ID: "2",
				Before: &model.Comment{
					ID: commentID, JobID: "J1", Author: "a@x.com",
					Text: "rude remark", CreatedAt: createdAt,
				},
				After: &model.Comment{
					ID: commentID, JobID: "J1", Author: "a@x.com",
					Text: "rude remark", CreatedAt: createdAt,
					Deletion: &model.Deletion{By: "rep@acme.example", At: deletedAt},
				},
			},
			commentEventAssertion: func(t *testing.T, event model.CommentEvent) {
				require.NotNil(t, event.After)
				require.NotNil(t, event.After.Deletion)
				require.Empty(t, event.After.Text)
				require.Empty(t, event.After.Deletion.By)
				require.Equal(t, deletedAt, event.After.Deletion.At)
				// the live side is untouched
				require.NotNil(t, event.Before)
				require.Equal(t, "rude remark", event.Before.Text)
			},
			callsSendMethod: true,
		},
		{
			name: "no visible change does not send",
			event: model.CommentEvent{
				ID: "3",
				Before: &model.Comment{
					ID: commentID, JobID: "J1", Author: "a@x.com",
					Text: "same", CreatedAt: createdAt,
				},
				After: &model.Comment{
					ID: commentID, JobID: "J1", Author: "a@x.com",
					Text: "same", CreatedAt: createdAt,
				},
			},
			callsSendMethod: false,
		},
		{
			name: "re-stamp of an already hidden comment collapses to no visible change",
			event: model.CommentEvent{
				ID: "4",
				Before: &model.Comment{
					ID: commentID, JobID: "J1", Author: "a@x.com",
					Text: "hidden", CreatedAt: createdAt,
					Deletion: &model.Deletion{By: "rep@acme.example", At: deletedAt},
				},
				After: &model.Comment{
					ID: commentID, JobID: "J1", Author: "a@x.com",
					Text: "hidden", CreatedAt: createdAt,
					Deletion: &model.Deletion{By: "other@acme.example", At: deletedAt},
				},
			},
			callsSendMethod: false,
		},
		{
			name: "error in sending event triggers error in handler",
			event: model.CommentEvent{
				ID: "5",
				After: &model.Comment{
					ID: commentID, JobID: "J1", Author: model.AnonymousAuthor,
					Text: "Great role!", CreatedAt: createdAt,
				},
			},
			sendError:       sendingError,
			callsSendMethod: true,
			expectedError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, sendingError)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sender := &MockSender{
				t:                     t,
				CommentEventAssertion: test.commentEventAssertion,
				SendError:             test.sendError,
			}
			notifier := NewNotifier(sender)
			err := notifier.Handle(context.Background(), test.event)
			if test.expectedError != nil {
				test.expectedError(t, err)
			}
			require.Equal(t, test.callsSendMethod, sender.called)
		})
	}
}
