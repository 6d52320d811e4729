package handlers

import (
	"net/http"

	"workforce/config"
	"workforce/middleware"
	"workforce/scheduling"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

func NewRouter(cfg *config.Config, engine *scheduling.Engine) http.Handler {
	workerHandler := NewWorkerHandler(cfg, engine)
	allocationHandler := NewAllocationHandler(cfg, engine)
	jobHandler := NewJobHandler(cfg, engine)
	reportHandler := NewReportHandler(cfg, engine)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.RequestSize(maxBodyBytes))
		r.Use(middleware.RequireJSON)

		r.Get("/workers", workerHandler.List)
		r.Post("/workers", workerHandler.Create)
		r.Get("/workers/{id}", workerHandler.Get)
		r.Patch("/workers/{id}", workerHandler.Update)
		r.Delete("/workers/{id}", workerHandler.Delete)

		r.Get("/allocations", allocationHandler.List)
		r.Post("/allocations", allocationHandler.Create)
		r.Get("/allocations/eligible", allocationHandler.Eligible)
		r.Get("/allocations/{id}", allocationHandler.Get)
		r.Delete("/allocations/{id}", allocationHandler.Delete)
		r.Post("/allocations/{id}/complete", allocationHandler.Complete)

		r.Get("/jobs", jobHandler.List)
		r.Post("/jobs", jobHandler.Create)
		r.Get("/jobs/{id}", jobHandler.Get)
		r.Post("/jobs/{id}/status", jobHandler.SetStatus)

		r.Get("/notifications", reportHandler.Notifications)
		r.Get("/reports/summary", reportHandler.Summary)
		r.Get("/reports/jobs.csv", reportHandler.ExportJobs)
		r.Get("/reports/allocations.csv", reportHandler.ExportAllocations)
	})

	return router
}
