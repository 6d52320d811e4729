package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"workforce/config"
	"workforce/models"
	"workforce/reports"
	"workforce/scheduling"
	"workforce/store"
)

type ReportHandler struct {
	config *config.Config
	engine *scheduling.Engine
	now    func() time.Time
}

func NewReportHandler(cfg *config.Config, engine *scheduling.Engine) *ReportHandler {
	return &ReportHandler{
		config: cfg,
		engine: engine,
		now:    time.Now,
	}
}

// Notifications lists in-progress jobs that are close to their due date.
func (h *ReportHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.engine.Jobs(r.Context(), store.Filter{"status": models.JobInProgress})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.UpcomingDeadlines(jobs, h.now(), h.config.DeadlineWindowDays))
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workers, err := h.engine.Workers(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	jobs, err := h.engine.Jobs(ctx, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	allocations, err := h.engine.Allocations(ctx, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.Summarize(workers, jobs, allocations, h.now()))
}

func (h *ReportHandler) ExportJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.engine.Jobs(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	setCSVHeaders(w, fmt.Sprintf("jobs_%s.csv", h.now().Format("2006_01_02")))
	if err := reports.WriteJobsCSV(w, jobs); err != nil {
		log.Printf("Failed to write jobs export: %v", err)
	}
}

func (h *ReportHandler) ExportAllocations(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.engine.Allocations(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	setCSVHeaders(w, fmt.Sprintf("allocations_%s.csv", h.now().Format("2006_01_02")))
	if err := reports.WriteAllocationsCSV(w, allocations); err != nil {
		log.Printf("Failed to write allocations export: %v", err)
	}
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}
