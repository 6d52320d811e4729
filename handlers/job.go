package handlers

import (
	"net/http"

	"workforce/config"
	"workforce/models"
	"workforce/scheduling"
	"workforce/store"
)

type JobHandler struct {
	config *config.Config
	engine *scheduling.Engine
}

func NewJobHandler(cfg *config.Config, engine *scheduling.Engine) *JobHandler {
	return &JobHandler{
		config: cfg,
		engine: engine,
	}
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	jobs, err := h.engine.Jobs(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	job, err := h.engine.Job(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input scheduling.JobInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	job, err := h.engine.CreateJob(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// SetStatus moves a job between states. Completing it releases the crew of
// its allocation.
func (h *JobHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var input struct {
		Status models.JobStatus `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if err := h.engine.CompleteJob(r.Context(), id, input.Status); err != nil {
		writeError(w, err)
		return
	}
	job, err := h.engine.Job(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
