package model

import (
	"time"

	"github.com/google/uuid"
)

// Vacancy is a single job posting as supplied by the warehouse, with the
// employer and the facet attributes already joined in. It is a read-only
// snapshot row and is never mutated by the core.
type Vacancy struct {
	// ID uniquely identifies the posting within one snapshot load.
	ID string `json:"vacancy_id"`

	// Title is the posting title.
	Title string `json:"title"`

	// Body is the free-text job description.
	Body string `json:"body_text"`

	// Type is the vacancy type (internship, graduate, part-time, ...).
	Type string `json:"type"`

	// Deadline is the application deadline. Nil when the posting has none.
	Deadline *time.Time `json:"deadline,omitempty"`

	// URL is the external application link.
	URL string `json:"url"`

	// EmployerName is the resolved employer display name.
	EmployerName string `json:"employer_name"`

	// Locations are the place names the posting is tied to. May be empty.
	Locations []string `json:"location_set,omitempty"`

	// Skills are the skill tags attached to the posting. May be empty.
	Skills []string `json:"skill_set,omitempty"`

	// ContactEmail designates the moderator for this posting's comment
	// thread. Empty when the posting has no moderator.
	ContactEmail string `json:"contact_email,omitempty"`

	// ContactPhone is the optional contact phone number.
	ContactPhone string `json:"contact_phone,omitempty"`
}

// Identity is a minimal per-email user record.
type Identity struct {
	// ID unique identifier of the identity.
	ID uuid.UUID `json:"user_id"`

	// Email is the unique business key of the identity.
	Email string `json:"email"`

	// Role is the identity role. Defaults to RoleUser; never escalated here.
	Role string `json:"role"`

	// CreatedAt is the time at which the identity was first seen.
	CreatedAt time.Time `json:"created_at"`
}

// RoleUser is the role every freshly resolved identity gets.
const RoleUser = "user"

// AnonymousAuthor is the author sentinel for comments posted without a
// resolved identity.
const AnonymousAuthor = "anonymous"

// Comment is one entry of a vacancy's thread.
type Comment struct {
	// ID unique identifier of the comment.
	ID uuid.UUID `json:"comment_id"`

	// JobID references the Vacancy the comment belongs to.
	JobID string `json:"job_id"`

	// Author is the email of the posting identity, or AnonymousAuthor.
	Author string `json:"author"`

	// Text is the comment body. Immutable after creation, even once the
	// comment is soft-deleted.
	Text string `json:"text"`

	// CreatedAt is the time at which the comment was posted.
	CreatedAt time.Time `json:"created_at"`

	// Deletion is nil while the comment is live. Once set it is never
	// cleared: soft-deletion is terminal.
	Deletion *Deletion `json:"deletion,omitempty"`
}

// Deleted reports whether the comment has been soft-deleted.
func (c Comment) Deleted() bool {
	return c.Deletion != nil
}

// Deletion records the hiding of a comment by a moderator. Deletion hides
// content, it never edits it.
type Deletion struct {
	// By is the email of the moderator who hid the comment.
	By string `json:"by"`

	// At is the time of the moderation action.
	At time.Time `json:"at"`
}

// FacetSelection is the transient query object of one filter interaction.
// An empty selected set means "no filter on that facet": every posting
// passes. There is deliberately no way to express "filter down to nothing"
// with an empty set; a selection has to name values that match nothing.
type FacetSelection struct {
	// Employers are the selected employer names. Zero-length means the facet is inactive.
	Employers []string

	// Types are the selected vacancy types. Zero-length means the facet is inactive.
	Types []string

	// Locations are the selected place names. Zero-length means the facet is inactive.
	Locations []string

	// Skills are the selected skill tags. Zero-length means the facet is inactive.
	Skills []string

	// DeadlineFrom is the inclusive lower deadline bound. Zero-value will be ignored as filter.
	DeadlineFrom time.Time

	// DeadlineTo is the inclusive upper deadline bound. Zero-value will be ignored as filter.
	DeadlineTo time.Time

	// Query is matched case-insensitively against title and body. Empty means inactive.
	Query string
}

// CommentEvent collects a comment change. It can represent creation and
// moderation of a comment.
type CommentEvent struct {
	// ID is the event id.
	ID string

	// Before is the comment state before the event. It will be nil for comment creations.
	Before *Comment

	// After is the comment state after the event.
	After *Comment
}
