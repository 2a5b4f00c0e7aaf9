package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"
)

// CommentServiceArgs contains the mandatory arguments for the CommentService.
type CommentServiceArgs struct {
	// Comments is the comment persistence layer.
	Comments ports.CommentStore

	// Vacancies supplies the postings that threads hang off.
	Vacancies ports.VacancyRepository
}

// CommentServiceOptArgs are the optional arguments for building a CommentService.
type CommentServiceOptArgs = func(*CommentService)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) CommentServiceOptArgs {
	return func(s *CommentService) {
		s.nowFunc = nowFunc
	}
}

// NewCommentService creates a new CommentService.
func NewCommentService(args CommentServiceArgs, optArgs ...CommentServiceOptArgs) *CommentService {
	s := &CommentService{
		comments:  args.Comments,
		vacancies: args.Vacancies,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// CommentService gathers the rules around a vacancy's comment thread:
// ordering, validation of new comments, and moderation.
type CommentService struct {
	comments  ports.CommentStore
	vacancies ports.VacancyRepository
	nowFunc   func() time.Time
}

// ListComments returns the full thread of a vacancy ascending by creation
// time. Soft-deleted rows stay in the sequence; how they are rendered is the
// presentation's concern. Every call re-queries the store, so a freshly
// posted comment is visible to the next listing.
func (s *CommentService) ListComments(ctx context.Context, args model.ListCommentsArgs) (*model.ListCommentsResponse, error) {
	comments, err := s.comments.ListComments(ctx, args.JobID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments from store: %w", err)
	}

	// the contract is ascending created_at even if a store adapter returns
	// another order.
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return &model.ListCommentsResponse{Comments: comments}, nil
}

// PostComment validates and appends a comment to a vacancy's thread. It
// returns model.ErrEmptyComment when the text is empty after trimming and
// model.ErrNotFound when the vacancy does not exist. No existing row is
// touched.
func (s *CommentService) PostComment(ctx context.Context, args model.PostCommentArgs) (*model.PostCommentResponse, error) {
	text := strings.TrimSpace(args.Text)
	if text == "" {
		return nil, model.ErrEmptyComment
	}

	if _, err := s.vacancies.GetVacancy(ctx, args.JobID); err != nil {
		return nil, fmt.Errorf("error resolving vacancy %q: %w", args.JobID, err)
	}

	author := args.Author
	if author == "" {
		author = model.AnonymousAuthor
	}

	comment := &model.Comment{
		ID:        uuid.New(),
		JobID:     args.JobID,
		Author:    author,
		Text:      text,
		CreatedAt: s.nowFunc(),
	}

	if err := s.comments.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("error saving comment in store: %w", err)
	}

	return &model.PostCommentResponse{Comment: *comment}, nil
}

// DeleteComment soft-deletes a comment on behalf of a moderator. It returns
// model.ErrNotFound when the comment or its vacancy is gone and
// model.ErrNotModerator when the acting identity is not the designated
// moderator of the thread. Deleting an already-deleted comment is a no-op
// returning success: the first deletion wins and the original stamp is kept.
func (s *CommentService) DeleteComment(ctx context.Context, args model.DeleteCommentArgs) error {
	comment, err := s.comments.GetComment(ctx, args.CommentID)
	if err != nil {
		return fmt.Errorf("error resolving comment %q: %w", args.CommentID, err)
	}

	vacancy, err := s.vacancies.GetVacancy(ctx, comment.JobID)
	if err != nil {
		return fmt.Errorf("error resolving vacancy %q of comment: %w", comment.JobID, err)
	}

	if !CanModerate(*vacancy, args.Moderator) {
		return model.ErrNotModerator
	}

	if comment.Deleted() {
		return nil
	}

	deletion := model.Deletion{By: args.Moderator.Email, At: s.nowFunc()}
	if err := s.comments.MarkCommentDeleted(ctx, comment.ID, deletion); err != nil {
		return fmt.Errorf("error marking comment deleted in store: %w", err)
	}

	return nil
}

// CanModerate is the authorization predicate for moderation actions: the
// acting identity's email must equal the contact email designated on the
// vacancy. A vacancy without contact email has no moderator.
func CanModerate(vacancy model.Vacancy, actor model.Identity) bool {
	return vacancy.ContactEmail != "" && vacancy.ContactEmail == actor.Email
}
