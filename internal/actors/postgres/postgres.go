package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
	"vacancyboard/internal/core/model"
)

// PostgresDB is a postgres adapter for persistence. It implements the
// vacancy repository and both engagement stores against one database.
type PostgresDB struct {
	db      *pg.DB
	nowFunc func() time.Time
}

// PostgresDBArgs are the mandatory arguments for the creation of a PostgresDB
type PostgresDBArgs struct {
	// DB is a postgres database handle
	DB *pg.DB
}

// PostgresDBOptArgs are the optional arguments for building a PostgresDB
type PostgresDBOptArgs = func(*PostgresDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) PostgresDBOptArgs {
	return func(p *PostgresDB) {
		p.nowFunc = nowFunc
	}
}

// NewPostgresDB creates a new PostgresDB.
func NewPostgresDB(args PostgresDBArgs, optArgs ...PostgresDBOptArgs) (*PostgresDB, error) {
	p := &PostgresDB{db: args.DB, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(p)
	}
	return p, nil
}

// ListVacancies returns the whole snapshot ordered by ascending deadline,
// postings without deadline last. Callers rely on this order and never
// resort.
func (p *PostgresDB) ListVacancies(ctx context.Context) ([]model.Vacancy, error) {
	var vacancies []vacancyDB
	err := p.db.ModelContext(ctx, &vacancies).
		OrderExpr("deadline ASC NULLS LAST").
		Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return translateVacanciesToModels(vacancies), nil
}

// GetVacancy returns a single posting. It returns model.ErrNotFound if the id
// does not correspond to an existing posting.
func (p *PostgresDB) GetVacancy(ctx context.Context, id string) (*model.Vacancy, error) {
	vacancy := new(vacancyDB)
	err := p.db.ModelContext(ctx, vacancy).Where("vacancy_id = ?", id).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m := translateVacancyToModel(*vacancy)
	return &m, nil
}

// ListKeywords returns the highlight keywords.
func (p *PostgresDB) ListKeywords(ctx context.Context) ([]string, error) {
	var keywords []keywordDB
	err := p.db.ModelContext(ctx, &keywords).Order("word ASC").Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	words := make([]string, len(keywords))
	for i, k := range keywords {
		words[i] = k.Word
	}
	return words, nil
}

// ListComments returns a vacancy's thread ascending by creation time,
// soft-deleted rows included.
func (p *PostgresDB) ListComments(ctx context.Context, jobID string) ([]model.Comment, error) {
	var comments []commentDB
	err := p.db.ModelContext(ctx, &comments).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Select()
	if err != nil && err != pg.ErrNoRows {
		return nil, err
	}
	return translateCommentsToModels(comments), nil
}

// GetComment returns a single comment. It returns model.ErrNotFound if the id
// does not correspond to an existing comment.
func (p *PostgresDB) GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment := new(commentDB)
	err := p.db.ModelContext(ctx, comment).Where("comment_id = ?", id).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m := translateCommentToModel(*comment)
	return &m, nil
}

// SaveComment will append the comment to the thread. Existing rows are never
// touched.
func (p *PostgresDB) SaveComment(ctx context.Context, comment *model.Comment) error {
	if comment == nil {
		return errors.New("nil comment passed to save method")
	}

	row := p.toCommentDB(comment)
	if _, err := p.db.ModelContext(ctx, row).Insert(); err != nil {
		return err
	}

	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	return nil
}

// MarkCommentDeleted stamps the deletion on a live comment. The predicate
// keeps the first stamp: a row that is already deleted is not updated, which
// is reported as success.
func (p *PostgresDB) MarkCommentDeleted(ctx context.Context, id uuid.UUID, deletion model.Deletion) error {
	_, err := p.db.ModelContext(ctx, (*commentDB)(nil)).
		Set("deleted_by = ?", deletion.By).
		Set("deleted_at = ?", deletion.At).
		Where("comment_id = ?", id).
		Where("deleted_by IS NULL").
		Update()
	return err
}

// GetIdentityByEmail returns the identity registered for the email. It
// returns model.ErrNotFound when the email has never been seen.
func (p *PostgresDB) GetIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	identity := new(identityDB)
	err := p.db.ModelContext(ctx, identity).Where("email = ?", email).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m := translateIdentityToModel(*identity)
	return &m, nil
}

// SaveIdentity will save a new identity. The unique index on email turns a
// duplicate registration into model.ErrConflict, which Resolve handles by
// re-reading.
func (p *PostgresDB) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	if identity == nil {
		return errors.New("nil identity passed to save method")
	}

	row := p.toIdentityDB(identity)
	if _, err := p.db.ModelContext(ctx, row).Insert(); err != nil {
		var pgErr pg.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return model.ErrConflict
		}
		return err
	}

	identity.ID = row.ID
	identity.CreatedAt = row.CreatedAt
	return nil
}

func (p *PostgresDB) toCommentDB(comment *model.Comment) *commentDB {
	row := new(commentDB)
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	row.ID = comment.ID
	row.JobID = comment.JobID
	row.Author = comment.Author
	row.Text = comment.Text
	if !comment.CreatedAt.IsZero() {
		row.CreatedAt = comment.CreatedAt
	} else {
		row.CreatedAt = p.nowFunc()
	}
	if comment.Deletion != nil {
		by := comment.Deletion.By
		at := comment.Deletion.At
		row.DeletedBy = &by
		row.DeletedAt = &at
	}
	return row
}

func (p *PostgresDB) toIdentityDB(identity *model.Identity) *identityDB {
	row := new(identityDB)
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	row.ID = identity.ID
	row.Email = identity.Email
	if identity.Role != "" {
		row.Role = identity.Role
	} else {
		row.Role = model.RoleUser
	}
	if !identity.CreatedAt.IsZero() {
		row.CreatedAt = identity.CreatedAt
	} else {
		row.CreatedAt = p.nowFunc()
	}
	return row
}

func translateVacanciesToModels(rows []vacancyDB) []model.Vacancy {
	models := make([]model.Vacancy, len(rows))
	for i, row := range rows {
		models[i] = translateVacancyToModel(row)
	}
	return models
}

func translateVacancyToModel(row vacancyDB) model.Vacancy {
	return model.Vacancy{
		ID:           row.ID,
		Title:        row.Title,
		Body:         row.Body,
		Type:         row.Type,
		Deadline:     row.Deadline,
		URL:          row.URL,
		EmployerName: row.EmployerName,
		Locations:    row.Locations,
		Skills:       row.Skills,
		ContactEmail: row.ContactEmail,
		ContactPhone: row.ContactPhone,
	}
}

func translateCommentsToModels(rows []commentDB) []model.Comment {
	models := make([]model.Comment, len(rows))
	for i, row := range rows {
		models[i] = translateCommentToModel(row)
	}
	return models
}

func translateCommentToModel(row commentDB) model.Comment {
	comment := model.Comment{
		ID:        row.ID,
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

func translateIdentityToModel(row identityDB) model.Identity {
	return model.Identity{
		ID:        row.ID,
		Email:     row.Email,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}
}

type vacancyDB struct {
	tableName struct{} `pg:"vacancyboard.vacancies"`

	// ID uniquely identifies the posting.
	ID string `pg:"vacancy_id,pk"`

	// Title is the posting title.
	Title string `pg:"title"`

	// Body is the free-text job description.
	Body string `pg:"body_text"`

	// Type is the vacancy type.
	Type string `pg:"type"`

	// Deadline is the application deadline, NULL when absent.
	Deadline *time.Time `pg:"deadline"`

	// URL is the external application link.
	URL string `pg:"url"`

	// EmployerName is the employer display name, denormalized by the load.
	EmployerName string `pg:"employer_name"`

	// Locations are the place names of the posting.
	Locations []string `pg:"location_set,array"`

	// Skills are the skill tags of the posting.
	Skills []string `pg:"skill_set,array"`

	// ContactEmail designates the thread moderator.
	ContactEmail string `pg:"contact_email"`

	// ContactPhone is the optional contact phone number.
	ContactPhone string `pg:"contact_phone"`
}

type commentDB struct {
	tableName struct{} `pg:"vacancyboard.comments"`

	// ID unique identifier of the comment.
	ID uuid.UUID `pg:"comment_id,pk,type:uuid"`

	// JobID references the vacancy the comment belongs to.
	JobID string `pg:"job_id"`

	// Author is the email of the posting identity, or the anonymous sentinel.
	Author string `pg:"author"`

	// Text is the comment body.
	Text string `pg:"comment_text"`

	// CreatedAt is the time at which the comment was posted.
	CreatedAt time.Time `pg:"created_at"`

	// DeletedBy is the moderator email, NULL while the comment is live.
	DeletedBy *string `pg:"deleted_by"`

	// DeletedAt is the time of the moderation action, NULL while live.
	DeletedAt *time.Time `pg:"deleted_at"`
}

type identityDB struct {
	tableName struct{} `pg:"vacancyboard.identities"`

	// ID unique identifier of the identity.
	ID uuid.UUID `pg:"user_id,pk,type:uuid"`

	// Email is the unique business key.
	Email string `pg:"email"`

	// Role is the identity role.
	Role string `pg:"role"`

	// CreatedAt is the time at which the identity was first seen.
	CreatedAt time.Time `pg:"created_at"`
}

type keywordDB struct {
	tableName struct{} `pg:"vacancyboard.keywords"`

	// Word is one highlight keyword.
	Word string `pg:"word,pk"`
}
