package subscriber

import (
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/require"
)

func TestDecodeMsgIntoCommentEvent(t *testing.T) {
	const createdMicros = int64(1756200000000000)
	const deletedMicros = int64(1756286400000000)

	t.Run("moderation event on the comments table", func(t *testing.T) {
		data := []byte(`{"payload":{"op":"u","source":{"schema":"vacancyboard","table":"comments"},` +
			`"before":{"comment_id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","job_id":"vac-1","author":"anonymous","comment_text":"hello","created_at":1756200000000000,"deleted_by":null,"deleted_at":null},` +
			`"after":{"comment_id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","job_id":"vac-1","author":"anonymous","comment_text":"hello","created_at":1756200000000000,"deleted_by":"hiring@acme.example","deleted_at":1756286400000000}}}`)

		event, err := decodeMsgIntoCommentEvent(&pubsub.Message{ID: "msg-1", Data: data})
		require.NoError(t, err)
		require.Equal(t, "msg-1", event.ID)
		require.NotNil(t, event.Before)
		require.Nil(t, event.Before.Deletion)
		require.Equal(t, "vac-1", event.Before.JobID)
		require.Equal(t, "hello", event.Before.Text)
		require.Equal(t, time.Unix(0, createdMicros*1000).UTC(), event.Before.CreatedAt)
		require.NotNil(t, event.After.Deletion)
		require.Equal(t, "hiring@acme.example", event.After.Deletion.By)
		require.Equal(t, time.Unix(0, deletedMicros*1000).UTC(), event.After.Deletion.At)
	})

	t.Run("creation event has no before image", func(t *testing.T) {
		data := []byte(`{"payload":{"op":"c","source":{"schema":"vacancyboard","table":"comments"},` +
			`"before":null,` +
			`"after":{"comment_id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","job_id":"vac-1","author":"reader@example.com","comment_text":"hi","created_at":1756200000000000,"deleted_by":null,"deleted_at":null}}}`)

		event, err := decodeMsgIntoCommentEvent(&pubsub.Message{ID: "msg-2", Data: data})
		require.NoError(t, err)
		require.Nil(t, event.Before)
		require.NotNil(t, event.After)
		// the column name on the wire is comment_text; the body must survive
		// decoding or creation events would be re-published empty
		require.Equal(t, "hi", event.After.Text)
	})

	t.Run("other tables are ignored", func(t *testing.T) {
		data := []byte(`{"payload":{"op":"c","source":{"schema":"vacancyboard","table":"identities"},"before":null,"after":null}}`)

		_, err := decodeMsgIntoCommentEvent(&pubsub.Message{ID: "msg-3", Data: data})
		require.ErrorIs(t, err, ErrIgnoreEvent)
	})

	t.Run("malformed comment id is ignored", func(t *testing.T) {
		data := []byte(`{"payload":{"op":"c","source":{"schema":"vacancyboard","table":"comments"},` +
			`"before":null,` +
			`"after":{"comment_id":"not-a-uuid","job_id":"vac-1","author":"anonymous","comment_text":"hi","created_at":1756200000000000}}}`)

		_, err := decodeMsgIntoCommentEvent(&pubsub.Message{ID: "msg-4", Data: data})
		require.ErrorIs(t, err, ErrIgnoreEvent)
	})

	t.Run("garbage payload is an error", func(t *testing.T) {
		_, err := decodeMsgIntoCommentEvent(&pubsub.Message{ID: "msg-5", Data: []byte("not json")})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrIgnoreEvent)
	})
}
