package scheduling

import (
	"context"
	"log"
	"strings"
	"time"

	"workforce/models"
	"workforce/store"

	"github.com/google/uuid"
)

type CommitInput struct {
	SupervisorID uint   `json:"supervisor_id"`
	WorkerIDs    []uint `json:"worker_ids"`
	CompanyName  string `json:"company_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`

	// CommitKey makes retries safe: repeating a commit with the key of an
	// existing allocation returns that allocation without writing. A
	// different request under the same key is a conflict.
	CommitKey string `json:"commit_key"`
}

type commitRequest struct {
	supervisorID uint
	workerIDs    []uint
	companyName  string
	startDate    time.Time
	endDate      time.Time
	commitKey    string
}

func (in CommitInput) validate() (*commitRequest, error) {
	if in.SupervisorID == 0 {
		return nil, &ValidationError{Field: "supervisor_id", Message: "a supervisor is required"}
	}
	if len(in.WorkerIDs) == 0 {
		return nil, &ValidationError{Field: "worker_ids", Message: "at least one worker is required"}
	}
	seen := make(map[uint]bool, len(in.WorkerIDs))
	for _, id := range in.WorkerIDs {
		switch {
		case id == 0:
			return nil, &ValidationError{Field: "worker_ids", Message: "worker id must not be empty"}
		case id == in.SupervisorID:
			return nil, &ValidationError{Field: "worker_ids", Message: "the supervisor cannot also be listed as a worker"}
		case seen[id]:
			return nil, &ValidationError{Field: "worker_ids", Message: "duplicate worker id"}
		}
		seen[id] = true
	}

	company := strings.TrimSpace(in.CompanyName)
	if company == "" {
		return nil, &ValidationError{Field: "company_name", Message: "company name is required"}
	}

	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, &ValidationError{Field: "end_date", Message: "end date must not be before start date"}
	}

	if len(in.CommitKey) > 64 {
		return nil, &ValidationError{Field: "commit_key", Message: "commit key is limited to 64 characters"}
	}

	return &commitRequest{
		supervisorID: in.SupervisorID,
		workerIDs:    in.WorkerIDs,
		companyName:  company,
		startDate:    start,
		endDate:      end,
		commitKey:    in.CommitKey,
	}, nil
}

// matches reports whether a is the allocation req would have produced.
func (req *commitRequest) matches(a *models.Allocation) bool {
	if a.SupervisorID != req.supervisorID || a.CompanyName != req.companyName {
		return false
	}
	if a.StartDate.Format(models.DateLayout) != req.startDate.Format(models.DateLayout) ||
		a.EndDate.Format(models.DateLayout) != req.endDate.Format(models.DateLayout) {
		return false
	}
	if len(a.Workers) != len(req.workerIDs) {
		return false
	}
	members := make(map[uint]bool, len(a.Workers))
	for _, w := range a.Workers {
		members[w.WorkerID] = true
	}
	for _, id := range req.workerIDs {
		if !members[id] {
			return false
		}
	}
	return true
}

func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, &ValidationError{Field: field, Message: "date is required"}
	}
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: "date must be formatted as YYYY-MM-DD"}
	}
	return t, nil
}

// Commit validates in and, in one transaction, marks the supervisor and
// workers allocated, creates the companion job and creates the allocation.
// Eligibility is re-checked against stored state inside the transaction.
func (e *Engine) Commit(ctx context.Context, in CommitInput) (*models.Allocation, error) {
	req, err := in.validate()
	if err != nil {
		return nil, err
	}

	if req.commitKey != "" {
		existing, err := e.store.Allocations().List(ctx, store.Filter{"commit_key": req.commitKey})
		if err != nil {
			return nil, classify("commit allocation", err)
		}
		if len(existing) > 0 {
			if !req.matches(&existing[0]) {
				return nil, &ConflictError{Message: "commit key " + req.commitKey + " was already used for a different allocation"}
			}
			log.Printf("Allocation %d already committed under key %s", existing[0].ID, req.commitKey)
			return &existing[0], nil
		}
	} else {
		req.commitKey = uuid.NewString()
	}

	var created *models.Allocation
	err = e.store.Transaction(ctx, func(tx store.Store) error {
		supervisor, err := tx.Workers().Get(ctx, req.supervisorID)
		if err != nil {
			return lookup("supervisor", req.supervisorID, err)
		}
		if !supervisor.IsSupervisor() {
			return &ValidationError{Field: "supervisor_id", Message: supervisor.Name + " is not a supervisor"}
		}

		found, err := tx.Workers().List(ctx, store.Filter{"id": req.workerIDs})
		if err != nil {
			return err
		}
		byID := make(map[uint]models.Worker, len(found))
		for _, w := range found {
			byID[w.ID] = w
		}

		members := make([]models.AllocationWorker, 0, len(req.workerIDs))
		for _, id := range req.workerIDs {
			w, ok := byID[id]
			if !ok {
				return &NotFoundError{Entity: "worker", ID: id}
			}
			if w.IsSupervisor() {
				return &ValidationError{Field: "worker_ids", Message: w.Name + " is a supervisor"}
			}
			members = append(members, models.AllocationWorker{WorkerID: w.ID, WorkerName: w.Name})
		}

		var taken []uint
		if supervisor.IsAllocated() {
			taken = append(taken, supervisor.ID)
		}
		for _, id := range req.workerIDs {
			if w := byID[id]; w.IsAllocated() {
				taken = append(taken, id)
			}
		}
		if len(taken) > 0 {
			return &ConflictError{Message: "no longer available", WorkerIDs: taken}
		}

		if err := e.reserve(ctx, tx, append([]uint{req.supervisorID}, req.workerIDs...)); err != nil {
			return err
		}

		supervisorID := supervisor.ID
		job := &models.Job{
			Title:          req.companyName,
			SupervisorID:   &supervisorID,
			SupervisorName: supervisor.Name,
			NumWorkers:     len(members),
			StartDate:      req.startDate,
			DueDate:        req.endDate,
			Status:         models.JobPending,
		}
		if err := tx.Jobs().Insert(ctx, job); err != nil {
			return err
		}

		allocation := &models.Allocation{
			JobID:          job.ID,
			CommitKey:      req.commitKey,
			SupervisorID:   supervisor.ID,
			SupervisorName: supervisor.Name,
			CompanyName:    req.companyName,
			StartDate:      req.startDate,
			EndDate:        req.endDate,
			Status:         models.AllocationActive,
			Workers:        members,
		}
		if err := tx.Allocations().Insert(ctx, allocation); err != nil {
			return err
		}
		created = allocation
		return nil
	})
	if err != nil {
		return nil, classify("commit allocation", err)
	}

	log.Printf("Allocation %d committed for %s (job %d, %d workers)",
		created.ID, created.CompanyName, created.JobID, len(created.Workers))
	return created, nil
}

// reserve flips ids from not allocated to allocated. The conditional update
// must touch every id, otherwise another commit got there first.
func (e *Engine) reserve(ctx context.Context, tx store.Store, ids []uint) error {
	active, err := tx.Allocations().List(ctx, store.Filter{"status": models.AllocationActive})
	if err != nil {
		return err
	}
	busy := activeMembers(active, 0)
	var taken []uint
	for _, id := range ids {
		if busy[id] {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return &ConflictError{Message: "already placed on an active allocation", WorkerIDs: taken}
	}

	affected, err := tx.Workers().UpdateWhere(ctx,
		store.Filter{"id": ids, "status": models.WorkerNotAllocated},
		store.Patch{"status": models.WorkerAllocated})
	if err != nil {
		return err
	}
	if affected != int64(len(ids)) {
		return &ConflictError{Message: "selected workers changed while committing"}
	}
	return nil
}
