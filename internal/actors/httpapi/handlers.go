package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"vacancyboard/internal/core/model"
)

// listVacancies narrows the snapshot by the facet parameters of the query
// string. Every facet is optional; with none supplied the full snapshot is
// returned in warehouse order.
func (s *Server) listVacancies(w http.ResponseWriter, r *http.Request) {
	selection, err := selectionFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := s.vacancies.ListVacancies(r.Context(), model.ListVacanciesArgs{Selection: selection})
	if err != nil {
		log.WithError(err).Error("error invoking usecase ListVacancies")
		writeUsecaseError(w, err)
		return
	}

	keywords, err := s.vacancies.Keywords(r.Context())
	if err != nil {
		log.WithError(err).Warn("could not load highlight keywords, serving plain bodies")
		keywords = nil
	}

	writeJSON(w, http.StatusOK, vacanciesToResponse(resp.Vacancies, keywords))
}

func (s *Server) getVacancy(w http.ResponseWriter, r *http.Request) {
	resp, err := s.vacancies.GetVacancy(r.Context(), model.GetVacancyArgs{ID: chi.URLParam(r, "vacancyID")})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	keywords, err := s.vacancies.Keywords(r.Context())
	if err != nil {
		log.WithError(err).Warn("could not load highlight keywords, serving plain body")
		keywords = nil
	}

	writeJSON(w, http.StatusOK, vacancyToResponse(resp.Vacancy, keywords))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.comments.ListComments(r.Context(), model.ListCommentsArgs{JobID: chi.URLParam(r, "vacancyID")})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentsToResponse(resp.Comments))
}

func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	var req postCommentRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	author := ""
	if req.AuthorEmail != "" {
		resolved, err := s.identities.Resolve(r.Context(), model.ResolveIdentityArgs{Email: req.AuthorEmail})
		if err != nil {
			writeUsecaseError(w, err)
			return
		}
		author = resolved.Identity.Email
	}

	resp, err := s.comments.PostComment(r.Context(), model.PostCommentArgs{
		JobID:  chi.URLParam(r, "vacancyID"),
		Author: author,
		Text:   req.Text,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentToResponse(resp.Comment))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req deleteCommentRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resolved, err := s.identities.Resolve(r.Context(), model.ResolveIdentityArgs{Email: req.ModeratorEmail})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	err = s.comments.DeleteComment(r.Context(), model.DeleteCommentArgs{
		CommentID: commentID,
		Moderator: resolved.Identity,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) resolveIdentity(w http.ResponseWriter, r *http.Request) {
	var req resolveIdentityRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := s.identities.Resolve(r.Context(), model.ResolveIdentityArgs{Email: req.Email})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, identityToResponse(resp.Identity))
}

// selectionFromQuery maps the query string to a facet selection. Multi-valued
// facets repeat the parameter (?employer=Acme&employer=Beta).
func selectionFromQuery(r *http.Request) (model.FacetSelection, error) {
	query := r.URL.Query()
	selection := model.FacetSelection{
		Employers: query["employer"],
		Types:     query["type"],
		Locations: query["location"],
		Skills:    query["skill"],
		Query:     query.Get("q"),
	}

	if raw := query.Get("deadline_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return model.FacetSelection{}, err
		}
		selection.DeadlineFrom = from
	}
	if raw := query.Get("deadline_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return model.FacetSelection{}, err
		}
		// the bound is a calendar date but deadlines carry a time of day;
		// the named day is included whole
		selection.DeadlineTo = to.Add(24*time.Hour - time.Nanosecond)
	}

	return selection, nil
}
