package scheduling

import (
	"context"
	"errors"
	"log"
	"time"

	"workforce/models"
	"workforce/store"
)

// RemoveAllocation deletes the allocation and releases everyone it named.
// A worker still referenced by another active allocation keeps its status.
func (e *Engine) RemoveAllocation(ctx context.Context, id uint) error {
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		allocation, err := tx.Allocations().Get(ctx, id)
		if err != nil {
			return lookup("allocation", id, err)
		}
		if err := tx.Allocations().Delete(ctx, id); err != nil {
			return err
		}
		return release(ctx, tx, allocation)
	})
	if err != nil {
		return classify("remove allocation", err)
	}
	log.Printf("Allocation %d removed", id)
	return nil
}

// CompleteJob moves the job to status. Completing a job also completes its
// active allocation and releases the people on it; repeating the call
// changes nothing.
func (e *Engine) CompleteJob(ctx context.Context, jobID uint, status models.JobStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown job status " + string(status)}
	}

	now := e.now()
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		job, err := tx.Jobs().Get(ctx, jobID)
		if err != nil {
			return lookup("job", jobID, err)
		}
		if err := setJobStatus(ctx, tx, job, status, now); err != nil {
			return err
		}
		if status != models.JobCompleted {
			return nil
		}

		allocations, err := tx.Allocations().List(ctx, store.Filter{"job_id": jobID})
		if err != nil {
			return err
		}
		if len(allocations) == 0 {
			log.Printf("Job %d completed without an allocation to release", jobID)
			return nil
		}
		for i := range allocations {
			if !allocations[i].IsActive() {
				continue
			}
			if err := completeAllocation(ctx, tx, &allocations[i], now); err != nil {
				return err
			}
		}
		return nil
	})
	return classify("update job status", err)
}

// CompleteAllocation completes an active allocation directly, together with
// its companion job. Completing an already completed allocation is a no-op.
func (e *Engine) CompleteAllocation(ctx context.Context, id uint) error {
	now := e.now()
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		allocation, err := tx.Allocations().Get(ctx, id)
		if err != nil {
			return lookup("allocation", id, err)
		}
		if !allocation.IsActive() {
			return nil
		}
		if err := completeAllocation(ctx, tx, allocation, now); err != nil {
			return err
		}

		job, err := tx.Jobs().Get(ctx, allocation.JobID)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("Allocation %d completed but job %d is missing", id, allocation.JobID)
			return nil
		}
		if err != nil {
			return err
		}
		return setJobStatus(ctx, tx, job, models.JobCompleted, now)
	})
	return classify("complete allocation", err)
}

func setJobStatus(ctx context.Context, tx store.Store, job *models.Job, status models.JobStatus, now time.Time) error {
	if job.Status == status {
		return nil
	}
	patch := store.Patch{"status": status}
	if status == models.JobCompleted {
		patch["completed_at"] = now
	} else if job.CompletedAt != nil {
		patch["completed_at"] = nil
	}
	return tx.Jobs().Update(ctx, job.ID, patch)
}

func completeAllocation(ctx context.Context, tx store.Store, allocation *models.Allocation, now time.Time) error {
	err := tx.Allocations().Update(ctx, allocation.ID, store.Patch{
		"status":       models.AllocationCompleted,
		"completed_at": now,
	})
	if err != nil {
		return err
	}
	allocation.Status = models.AllocationCompleted
	allocation.CompletedAt = &now
	return release(ctx, tx, allocation)
}

// release sets every member of allocation back to not allocated unless
// another active allocation still references them.
func release(ctx context.Context, tx store.Store, allocation *models.Allocation) error {
	active, err := tx.Allocations().List(ctx, store.Filter{"status": models.AllocationActive})
	if err != nil {
		return err
	}
	busy := activeMembers(active, allocation.ID)

	var free []uint
	for _, id := range allocation.MemberIDs() {
		if !busy[id] {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return nil
	}
	_, err = tx.Workers().UpdateWhere(ctx, store.Filter{"id": free}, store.Patch{"status": models.WorkerNotAllocated})
	return err
}
