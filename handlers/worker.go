package handlers

import (
	"net/http"

	"workforce/config"
	"workforce/scheduling"
)

type WorkerHandler struct {
	config *config.Config
	engine *scheduling.Engine
}

func NewWorkerHandler(cfg *config.Config, engine *scheduling.Engine) *WorkerHandler {
	return &WorkerHandler{
		config: cfg,
		engine: engine,
	}
}

func (h *WorkerHandler) List(w http.ResponseWriter, r *http.Request) {
	workers, err := h.engine.Workers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

func (h *WorkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	worker, err := h.engine.Worker(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

func (h *WorkerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input scheduling.WorkerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	worker, err := h.engine.CreateWorker(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, worker)
}

// Update edits contact details. Status is not accepted here; it only
// changes through allocation commits and completions.
func (h *WorkerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var input scheduling.WorkerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	worker, err := h.engine.UpdateWorker(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

func (h *WorkerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.engine.RemoveWorker(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
