package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"vacancyboard/internal/core/model"
)

// MongoDB is a mongo adapter for the engagement stores (comments and
// identities). The vacancy snapshot stays in the warehouse; only the
// engagement side can be moved onto mongo.
type MongoDB struct {
	commentCollection  *mongo.Collection
	identityCollection *mongo.Collection
	nowFunc            func() time.Time
}

// MongoDBArgs are the mandatory arguments for the creation of a MongoDB
type MongoDBArgs struct {
	// CommentCollection holds the comment rows.
	CommentCollection *mongo.Collection

	// IdentityCollection holds the identity rows. It is expected to carry a
	// unique index on email.
	IdentityCollection *mongo.Collection
}

// MongoDBOptArgs are the optional arguments for building a MongoDB
type MongoDBOptArgs = func(*MongoDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) MongoDBOptArgs {
	return func(m *MongoDB) {
		m.nowFunc = nowFunc
	}
}

// NewMongoDB creates a new MongoDB.
func NewMongoDB(args MongoDBArgs, optArgs ...MongoDBOptArgs) (*MongoDB, error) {
	m := &MongoDB{
		commentCollection:  args.CommentCollection,
		identityCollection: args.IdentityCollection,
		nowFunc:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(m)
	}
	return m, nil
}

// ListComments returns a vacancy's thread ascending by creation time,
// soft-deleted rows included.
func (m *MongoDB) ListComments(ctx context.Context, jobID string) ([]model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.commentCollection.Find(ctx, bson.M{"job_id": jobID}, opts)
	if err != nil {
		return nil, err
	}
	var rows []commentDB
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return translateCommentsToModels(rows), nil
}

// GetComment returns a single comment. It returns model.ErrNotFound if the id
// does not correspond to an existing comment.
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	row := new(commentDB)
	err := m.commentCollection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(row)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	comment := translateCommentToModel(*row)
	return &comment, nil
}

// SaveComment will append the comment to the thread.
func (m *MongoDB) SaveComment(ctx context.Context, comment *model.Comment) error {
	if comment == nil {
		return errors.New("nil comment passed to save method")
	}

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = m.nowFunc()
	}

	row := commentDB{
		ID:        comment.ID.String(),
		JobID:     comment.JobID,
		Author:    comment.Author,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Deletion != nil {
		row.DeletedBy = &comment.Deletion.By
		at := comment.Deletion.At
		row.DeletedAt = &at
	}

	if _, err := m.commentCollection.InsertOne(ctx, row); err != nil {
		return err
	}
	return nil
}

// MarkCommentDeleted stamps the deletion on a live comment. The filter keeps
// the first stamp: an already-deleted document does not match and is left
// untouched.
func (m *MongoDB) MarkCommentDeleted(ctx context.Context, id uuid.UUID, deletion model.Deletion) error {
	filter := bson.M{
		"_id":        id.String(),
		"deleted_by": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"deleted_by": deletion.By,
		"deleted_at": deletion.At,
	}}
	_, err := m.commentCollection.UpdateOne(ctx, filter, update)
	return err
}

// GetIdentityByEmail returns the identity registered for the email. It
// returns model.ErrNotFound when the email has never been seen.
func (m *MongoDB) GetIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	row := new(identityDB)
	err := m.identityCollection.FindOne(ctx, bson.M{"email": email}).Decode(row)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	identity, err := translateIdentityToModel(*row)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// SaveIdentity will save a new identity. A duplicate email is reported as
// model.ErrConflict through the unique index on the collection.
func (m *MongoDB) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	if identity == nil {
		return errors.New("nil identity passed to save method")
	}

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = m.nowFunc()
	}
	if identity.Role == "" {
		identity.Role = model.RoleUser
	}

	row := identityDB{
		ID:        identity.ID.String(),
		Email:     identity.Email,
		Role:      identity.Role,
		CreatedAt: identity.CreatedAt,
	}
	if _, err := m.identityCollection.InsertOne(ctx, row); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrConflict
		}
		return err
	}
	return nil
}

// EnsureIndexes creates the unique email index Resolve relies on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.identityCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func translateCommentsToModels(rows []commentDB) []model.Comment {
	models := make([]model.Comment, len(rows))
	for i, row := range rows {
		models[i] = translateCommentToModel(row)
	}
	return models
}

func translateCommentToModel(row commentDB) model.Comment {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		id = uuid.Nil
	}
	comment := model.Comment{
		ID:        id,
		JobID:     row.JobID,
		Author:    row.Author,
		Text:      row.Text,
		CreatedAt: row.CreatedAt,
	}
	if row.DeletedBy != nil {
		deletion := model.Deletion{By: *row.DeletedBy}
		if row.DeletedAt != nil {
			deletion.At = *row.DeletedAt
		}
		comment.Deletion = &deletion
	}
	return comment
}

func translateIdentityToModel(row identityDB) (*model.Identity, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, err
	}
	return &model.Identity{
		ID:        id,
		Email:     row.Email,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}, nil
}

type commentDB struct {
	// ID unique identifier of the comment.
	ID string `bson:"_id"`

	// JobID references the vacancy the comment belongs to.
	JobID string `bson:"job_id"`

	// Author is the email of the posting identity, or the anonymous sentinel.
	Author string `bson:"author"`

	// Text is the comment body.
	Text string `bson:"comment_text"`

	// CreatedAt is the time at which the comment was posted.
	CreatedAt time.Time `bson:"created_at"`

	// DeletedBy is the moderator email. Absent while the comment is live.
	DeletedBy *string `bson:"deleted_by,omitempty"`

	// DeletedAt is the time of the moderation action. Absent while live.
	DeletedAt *time.Time `bson:"deleted_at,omitempty"`
}

type identityDB struct {
	// ID unique identifier of the identity.
	ID string `bson:"_id"`

	// Email is the unique business key.
	Email string `bson:"email"`

	// Role is the identity role.
	Role string `bson:"role"`

	// CreatedAt is the time at which the identity was first seen.
	CreatedAt time.Time `bson:"created_at"`
}
