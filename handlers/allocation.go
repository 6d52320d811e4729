package handlers

import (
	"net/http"

	"workforce/config"
	"workforce/models"
	"workforce/scheduling"
	"workforce/store"
)

type AllocationHandler struct {
	config *config.Config
	engine *scheduling.Engine
}

func NewAllocationHandler(cfg *config.Config, engine *scheduling.Engine) *AllocationHandler {
	return &AllocationHandler{
		config: cfg,
		engine: engine,
	}
}

type allocationView struct {
	models.Allocation
	WorkerIDs   []uint   `json:"worker_ids"`
	WorkerNames []string `json:"worker_names"`
}

func viewAllocation(a *models.Allocation) allocationView {
	return allocationView{
		Allocation:  *a,
		WorkerIDs:   a.WorkerIDs(),
		WorkerNames: a.WorkerNames(),
	}
}

func (h *AllocationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	allocations, err := h.engine.Allocations(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]allocationView, 0, len(allocations))
	for i := range allocations {
		views = append(views, viewAllocation(&allocations[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *AllocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	allocation, err := h.engine.Allocation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAllocation(allocation))
}

// Eligible returns the people that can be placed on a new allocation.
func (h *AllocationHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	supervisors, workers, err := h.engine.Eligibility(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"supervisors": supervisors,
		"workers":     workers,
	})
}

func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input scheduling.CommitInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" && input.CommitKey == "" {
		input.CommitKey = key
	}
	allocation, err := h.engine.Commit(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewAllocation(allocation))
}

func (h *AllocationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.engine.CompleteAllocation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	allocation, err := h.engine.Allocation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAllocation(allocation))
}

func (h *AllocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.engine.RemoveAllocation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
