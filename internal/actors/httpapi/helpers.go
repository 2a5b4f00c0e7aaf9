package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"vacancyboard/internal/core/model"
)

func parseJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("error encoding response payload")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeUsecaseError maps the core error taxonomy onto status codes. Anything
// outside the taxonomy is a store failure and is reported as such without
// leaking its detail.
func writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, model.ErrNotFound)
	case errors.Is(err, model.ErrEmptyComment):
		writeError(w, http.StatusBadRequest, model.ErrEmptyComment)
	case errors.Is(err, model.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, model.ErrInvalidEmail)
	case errors.Is(err, model.ErrNotModerator):
		writeError(w, http.StatusForbidden, model.ErrNotModerator)
	default:
		log.WithError(err).Error("store failure")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
