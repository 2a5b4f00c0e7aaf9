// Package httpapi exposes the browse and engagement operations over HTTP.
// The wire format lives entirely here; the core stays transport-agnostic.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"vacancyboard/internal/core/model"
)

// vacancyUsecase is the browse side consumed by the handlers.
type vacancyUsecase interface {
	// ListVacancies narrows the snapshot by a facet selection.
	ListVacancies(ctx context.Context, args model.ListVacanciesArgs) (*model.ListVacanciesResponse, error)

	// GetVacancy returns a single posting.
	GetVacancy(ctx context.Context, args model.GetVacancyArgs) (*model.GetVacancyResponse, error)

	// Keywords returns the highlight keywords.
	Keywords(ctx context.Context) ([]string, error)
}

// commentUsecase is the thread side consumed by the handlers.
type commentUsecase interface {
	// ListComments returns the full thread of a vacancy.
	ListComments(ctx context.Context, args model.ListCommentsArgs) (*model.ListCommentsResponse, error)

	// PostComment appends a comment to a thread.
	PostComment(ctx context.Context, args model.PostCommentArgs) (*model.PostCommentResponse, error)

	// DeleteComment soft-deletes a comment on behalf of a moderator.
	DeleteComment(ctx context.Context, args model.DeleteCommentArgs) error
}

// identityUsecase resolves emails to identities.
type identityUsecase interface {
	// Resolve returns the identity for an email, creating it on first sight.
	Resolve(ctx context.Context, args model.ResolveIdentityArgs) (*model.ResolveIdentityResponse, error)
}

// ServerArgs are the mandatory args to instantiate the Server.
type ServerArgs struct {
	// Vacancies is the browse usecase.
	Vacancies vacancyUsecase

	// Comments is the thread usecase.
	Comments commentUsecase

	// Identities is the resolver usecase.
	Identities identityUsecase
}

// NewServer creates a new Server.
func NewServer(args ServerArgs) *Server {
	return &Server{
		vacancies:  args.Vacancies,
		comments:   args.Comments,
		identities: args.Identities,
	}
}

// Server wires the usecases to the router.
type Server struct {
	vacancies  vacancyUsecase
	comments   commentUsecase
	identities identityUsecase
}

// Routes assembles the router.
func (s *Server) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Get("/vacancies", s.listVacancies)
	router.Get("/vacancies/{vacancyID}", s.getVacancy)
	router.Get("/vacancies/{vacancyID}/comments", s.listComments)
	router.Post("/vacancies/{vacancyID}/comments", s.postComment)
	router.Delete("/comments/{commentID}", s.deleteComment)
	router.Post("/identities/resolve", s.resolveIdentity)

	return router
}
