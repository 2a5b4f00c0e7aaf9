// Package memory implements the store ports in memory for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"
)

// DB implements an in-memory database storage.
type DB struct {
	mu         sync.Mutex
	vacancies  []model.Vacancy
	keywords   []string
	comments   []model.Comment
	identities map[string]model.Identity
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		identities: make(map[string]model.Identity),
	}
}

// Ensure interfaces are met.
var _ ports.VacancyRepository = (*DB)(nil)
var _ ports.CommentStore = (*DB)(nil)
var _ ports.IdentityStore = (*DB)(nil)

// SeedVacancies replaces the vacancy snapshot. The caller supplies the
// collection already ordered by ascending deadline, nulls last, like the
// warehouse does.
func (db *DB) SeedVacancies(vacancies []model.Vacancy) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.vacancies = append([]model.Vacancy(nil), vacancies...)
}

// SeedKeywords replaces the highlight keywords.
func (db *DB) SeedKeywords(keywords []string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.keywords = append([]string(nil), keywords...)
}

// --- VacancyRepository ---

// ListVacancies returns the seeded snapshot in its seeded order.
func (db *DB) ListVacancies(ctx context.Context) ([]model.Vacancy, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]model.Vacancy(nil), db.vacancies...), nil
}

// GetVacancy returns a posting by id.
func (db *DB) GetVacancy(ctx context.Context, id string) (*model.Vacancy, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, v := range db.vacancies {
		if v.ID == id {
			vacancy := v
			return &vacancy, nil
		}
	}
	return nil, model.ErrNotFound
}

// ListKeywords returns the seeded keywords.
func (db *DB) ListKeywords(ctx context.Context) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]string(nil), db.keywords...), nil
}

// --- CommentStore ---

// ListComments returns a thread ascending by creation time.
func (db *DB) ListComments(ctx context.Context, jobID string) ([]model.Comment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	thread := make([]model.Comment, 0)
	for _, c := range db.comments {
		if c.JobID == jobID {
			thread = append(thread, c)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	return thread, nil
}

// GetComment returns a comment by id.
func (db *DB) GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.comments {
		if c.ID == id {
			comment := c
			return &comment, nil
		}
	}
	return nil, model.ErrNotFound
}

// SaveComment appends a comment.
func (db *DB) SaveComment(ctx context.Context, comment *model.Comment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	db.comments = append(db.comments, *comment)
	return nil
}

// MarkCommentDeleted stamps a live comment. The first stamp wins.
func (db *DB) MarkCommentDeleted(ctx context.Context, id uuid.UUID, deletion model.Deletion) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.comments {
		if db.comments[i].ID == id && db.comments[i].Deletion == nil {
			d := deletion
			db.comments[i].Deletion = &d
		}
	}
	return nil
}

// --- IdentityStore ---

// GetIdentityByEmail returns the identity registered for the email.
func (db *DB) GetIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if identity, ok := db.identities[email]; ok {
		return &identity, nil
	}
	return nil, model.ErrNotFound
}

// SaveIdentity saves a new identity. The mutex serializes first
// registrations, so duplicates surface as model.ErrConflict just like with a
// unique index.
func (db *DB) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.identities[identity.Email]; ok {
		return model.ErrConflict
	}
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	db.identities[identity.Email] = *identity
	return nil
}
