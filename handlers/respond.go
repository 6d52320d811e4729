package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"workforce/scheduling"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	WorkerIDs []uint `json:"worker_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps engine errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *scheduling.ValidationError
		notFound   *scheduling.NotFoundError
		conflict   *scheduling.ConflictError
	)
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Error(), Field: validation.Field})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflict.Error(), WorkerIDs: conflict.WorkerIDs})
	default:
		log.Printf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

var errBodyTooLarge = errors.New("request body too large")

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return &scheduling.ValidationError{Message: "Invalid request body"}
	}
	return nil
}

func idParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, &scheduling.ValidationError{Field: "id", Message: "Invalid ID"}
	}
	return uint(id), nil
}
