package scheduling

import (
	"context"
	"log"
	"strings"

	"workforce/models"
	"workforce/store"
)

type WorkerInput struct {
	Name  string          `json:"name"`
	Role  string          `json:"role"`
	Kind  models.RoleKind `json:"kind"`
	Email string          `json:"email"`
	Phone string          `json:"phone"`
}

func (in *WorkerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

func validKind(k models.RoleKind) bool {
	return k == "" || k == models.KindSupervisor || k == models.KindWorker
}

// CreateWorker adds a worker to the roster. New workers always start
// unallocated.
func (e *Engine) CreateWorker(ctx context.Context, in WorkerInput) (*models.Worker, error) {
	in.normalize()
	switch {
	case in.Name == "":
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	case in.Role == "":
		return nil, &ValidationError{Field: "role", Message: "role is required"}
	case in.Email == "":
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	case in.Phone == "":
		return nil, &ValidationError{Field: "phone", Message: "phone is required"}
	case !validKind(in.Kind):
		return nil, &ValidationError{Field: "kind", Message: "kind must be SUPERVISOR or WORKER"}
	}

	kind := in.Kind
	if kind == "" {
		kind = models.ClassifyRole(in.Role)
	}
	worker := &models.Worker{
		Name:   in.Name,
		Role:   in.Role,
		Kind:   kind,
		Email:  in.Email,
		Phone:  in.Phone,
		Status: models.WorkerNotAllocated,
	}
	if err := e.store.Workers().Insert(ctx, worker); err != nil {
		return nil, classify("create worker", err)
	}
	log.Printf("Worker %d (%s) added as %s", worker.ID, worker.Name, worker.Kind)
	return worker, nil
}

// UpdateWorker changes contact and role details. Status is never taken from
// the input, and allocated workers cannot be edited.
func (e *Engine) UpdateWorker(ctx context.Context, id uint, in WorkerInput) (*models.Worker, error) {
	in.normalize()
	if !validKind(in.Kind) {
		return nil, &ValidationError{Field: "kind", Message: "kind must be SUPERVISOR or WORKER"}
	}

	var updated *models.Worker
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		worker, err := tx.Workers().Get(ctx, id)
		if err != nil {
			return lookup("worker", id, err)
		}
		if err := ensureUnreferenced(ctx, tx, worker, "cannot edit a worker on an active allocation"); err != nil {
			return err
		}

		patch := store.Patch{}
		if in.Name != "" {
			patch["name"] = in.Name
		}
		if in.Role != "" {
			patch["role"] = in.Role
			if in.Kind == "" {
				patch["kind"] = models.ClassifyRole(in.Role)
			}
		}
		if in.Kind != "" {
			patch["kind"] = in.Kind
		}
		if in.Email != "" {
			patch["email"] = in.Email
		}
		if in.Phone != "" {
			patch["phone"] = in.Phone
		}
		if len(patch) > 0 {
			if err := tx.Workers().Update(ctx, id, patch); err != nil {
				return err
			}
		}
		updated, err = tx.Workers().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, classify("update worker", err)
	}
	return updated, nil
}

// RemoveWorker deletes a worker that no active allocation references.
func (e *Engine) RemoveWorker(ctx context.Context, id uint) error {
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		worker, err := tx.Workers().Get(ctx, id)
		if err != nil {
			return lookup("worker", id, err)
		}
		if err := ensureUnreferenced(ctx, tx, worker, "cannot remove a worker on an active allocation"); err != nil {
			return err
		}
		return tx.Workers().Delete(ctx, id)
	})
	if err != nil {
		return classify("remove worker", err)
	}
	log.Printf("Worker %d removed", id)
	return nil
}

func ensureUnreferenced(ctx context.Context, tx store.Store, worker *models.Worker, message string) error {
	if worker.IsAllocated() {
		return &ConflictError{Message: message, WorkerIDs: []uint{worker.ID}}
	}
	active, err := tx.Allocations().List(ctx, store.Filter{"status": models.AllocationActive})
	if err != nil {
		return err
	}
	for i := range active {
		if active[i].References(worker.ID) {
			return &ConflictError{Message: message, WorkerIDs: []uint{worker.ID}}
		}
	}
	return nil
}

type JobInput struct {
	Title        string           `json:"title"`
	SupervisorID uint             `json:"supervisor_id"`
	NumWorkers   int              `json:"num_workers"`
	StartDate    string           `json:"start_date"`
	DueDate      string           `json:"due_date"`
	Status       models.JobStatus `json:"status"`
}

// CreateJob records a job that is not backed by an allocation.
func (e *Engine) CreateJob(ctx context.Context, in JobInput) (*models.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.NumWorkers < 0 {
		return nil, &ValidationError{Field: "num_workers", Message: "must not be negative"}
	}
	status := in.Status
	if status == "" {
		status = models.JobPending
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "unknown job status " + string(status)}
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	if start.After(due) {
		return nil, &ValidationError{Field: "due_date", Message: "due date must not be before start date"}
	}

	job := &models.Job{
		Title:      title,
		NumWorkers: in.NumWorkers,
		StartDate:  start,
		DueDate:    due,
		Status:     status,
	}
	if status == models.JobCompleted {
		now := e.now()
		job.CompletedAt = &now
	}

	if in.SupervisorID != 0 {
		supervisor, err := e.store.Workers().Get(ctx, in.SupervisorID)
		if err != nil {
			return nil, classify("create job", lookup("supervisor", in.SupervisorID, err))
		}
		if !supervisor.IsSupervisor() {
			return nil, &ValidationError{Field: "supervisor_id", Message: supervisor.Name + " is not a supervisor"}
		}
		job.SupervisorID = &supervisor.ID
		job.SupervisorName = supervisor.Name
	}

	if err := e.store.Jobs().Insert(ctx, job); err != nil {
		return nil, classify("create job", err)
	}
	log.Printf("Job %d (%s) created", job.ID, job.Title)
	return job, nil
}
