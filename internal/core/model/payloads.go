package model

import "github.com/google/uuid"

// ListVacanciesArgs contain the arguments of the ListVacancies use-case.
type ListVacanciesArgs struct {
	// Selection is the facet combination to narrow the snapshot with.
	Selection FacetSelection
}

// ListVacanciesResponse contains the postings matching the selection, in
// snapshot order.
type ListVacanciesResponse struct {
	// Vacancies are the postings matching the selection.
	Vacancies []Vacancy
}

// GetVacancyArgs contain the arguments of the GetVacancy use-case.
type GetVacancyArgs struct {
	// ID is the vacancy id to look up.
	ID string
}

// GetVacancyResponse contains the looked-up posting.
type GetVacancyResponse struct {
	// Vacancy is the posting.
	Vacancy Vacancy
}

// ListCommentsArgs contain the arguments of the ListComments use-case.
type ListCommentsArgs struct {
	// JobID is the vacancy whose thread is listed.
	JobID string
}

// ListCommentsResponse contains the thread, ascending by creation time,
// soft-deleted rows included.
type ListCommentsResponse struct {
	// Comments is the full thread.
	Comments []Comment
}

// PostCommentArgs contain the arguments of the PostComment use-case.
type PostCommentArgs struct {
	// JobID is the vacancy the comment is attached to.
	JobID string

	// Author is the email of the posting identity. Empty means anonymous.
	Author string

	// Text is the comment body.
	Text string
}

// PostCommentResponse contains the persisted comment.
type PostCommentResponse struct {
	// Comment
	Comment Comment
}

// DeleteCommentArgs contain the arguments of the DeleteComment use-case.
type DeleteCommentArgs struct {
	// CommentID is the id of the comment to soft-delete.
	CommentID uuid.UUID

	// Moderator is the acting identity.
	Moderator Identity
}

// ResolveIdentityArgs contain the arguments of the Resolve use-case.
type ResolveIdentityArgs struct {
	// Email is the address to resolve.
	Email string
}

// ResolveIdentityResponse contains the resolved identity.
type ResolveIdentityResponse struct {
	// Identity
	Identity Identity
}
