package ports

import (
	"context"

	"github.com/google/uuid"
	"vacancyboard/internal/core/model"
)

// VacancyRepository supplies the denormalized vacancy snapshot from the
// warehouse. The snapshot is read-only for this service.
type VacancyRepository interface {
	// ListVacancies returns the full collection, ordered by ascending
	// deadline with null deadlines last.
	ListVacancies(ctx context.Context) ([]model.Vacancy, error)

	// GetVacancy returns a single posting. It returns model.ErrNotFound if
	// the id does not correspond to an existing posting.
	GetVacancy(ctx context.Context, id string) (*model.Vacancy, error)

	// ListKeywords returns the highlight keywords.
	ListKeywords(ctx context.Context) ([]string, error)
}

// CommentStore is the interface for the comment persistence layer.
type CommentStore interface {
	// ListComments returns the thread of a vacancy ascending by creation
	// time, soft-deleted rows included.
	ListComments(ctx context.Context, jobID string) ([]model.Comment, error)

	// GetComment returns a single comment. It returns model.ErrNotFound if
	// the id does not correspond to an existing comment.
	GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// SaveComment durably appends the comment. Existing rows are never
	// touched by an insert.
	SaveComment(ctx context.Context, comment *model.Comment) error

	// MarkCommentDeleted stamps the deletion on a live comment. A row that
	// already carries a deletion stamp is left untouched: the first
	// deletion wins.
	MarkCommentDeleted(ctx context.Context, id uuid.UUID, deletion model.Deletion) error
}

// IdentityStore is the interface for the identity persistence layer. The
// store is required to enforce a uniqueness constraint on email.
type IdentityStore interface {
	// GetIdentityByEmail returns the identity registered for the email. It
	// returns model.ErrNotFound when the email has never been seen.
	GetIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)

	// SaveIdentity durably saves a new identity. It returns
	// model.ErrConflict when the email is already registered.
	SaveIdentity(ctx context.Context, identity *model.Identity) error
}
