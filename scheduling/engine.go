// Package scheduling keeps workers, jobs and allocations consistent with each
// other. Every write that changes a worker's status goes through an Engine.
package scheduling

import (
	"context"
	"time"

	"workforce/models"
	"workforce/store"
)

type Engine struct {
	store store.Store
	now   func() time.Time
}

func New(s store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

func (e *Engine) Workers(ctx context.Context) ([]models.Worker, error) {
	workers, err := e.store.Workers().List(ctx, nil)
	return workers, classify("list workers", err)
}

func (e *Engine) Worker(ctx context.Context, id uint) (*models.Worker, error) {
	w, err := e.store.Workers().Get(ctx, id)
	if err != nil {
		return nil, classify("get worker", lookup("worker", id, err))
	}
	return w, nil
}

func (e *Engine) Jobs(ctx context.Context, filter store.Filter) ([]models.Job, error) {
	jobs, err := e.store.Jobs().List(ctx, filter)
	return jobs, classify("list jobs", err)
}

func (e *Engine) Job(ctx context.Context, id uint) (*models.Job, error) {
	j, err := e.store.Jobs().Get(ctx, id)
	if err != nil {
		return nil, classify("get job", lookup("job", id, err))
	}
	return j, nil
}

func (e *Engine) Allocations(ctx context.Context, filter store.Filter) ([]models.Allocation, error) {
	allocations, err := e.store.Allocations().List(ctx, filter)
	return allocations, classify("list allocations", err)
}

func (e *Engine) Allocation(ctx context.Context, id uint) (*models.Allocation, error) {
	a, err := e.store.Allocations().Get(ctx, id)
	if err != nil {
		return nil, classify("get allocation", lookup("allocation", id, err))
	}
	return a, nil
}

// Eligibility returns the supervisors and workers that can be placed on a
// new allocation. The lists are a snapshot; Commit checks again.
func (e *Engine) Eligibility(ctx context.Context) (supervisors, workers []models.Worker, err error) {
	all, err := e.Workers(ctx)
	if err != nil {
		return nil, nil, err
	}
	active, err := e.Allocations(ctx, store.Filter{"status": models.AllocationActive})
	if err != nil {
		return nil, nil, err
	}
	return EligibleSupervisors(all, active), EligibleWorkers(all, active), nil
}
