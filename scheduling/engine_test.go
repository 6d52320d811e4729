package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"workforce/database"
	"workforce/models"
	"workforce/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

func setupEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	engine := New(store.New(db))
	engine.now = func() time.Time { return fixedNow }
	return engine, db
}

func seedWorker(t *testing.T, e *Engine, name, role string) *models.Worker {
	t.Helper()
	w, err := e.CreateWorker(context.Background(), WorkerInput{
		Name:  name,
		Role:  role,
		Email: name + "@example.com",
		Phone: "555-0100",
	})
	require.NoError(t, err)
	return w
}

type crew struct {
	supervisor *models.Worker
	a, b       *models.Worker
}

func seedCrew(t *testing.T, e *Engine) crew {
	t.Helper()
	return crew{
		supervisor: seedWorker(t, e, "Grace", "Site Supervisor"),
		a:          seedWorker(t, e, "Alan", "Welder"),
		b:          seedWorker(t, e, "Bea", "Fitter"),
	}
}

func acmeInput(c crew) CommitInput {
	return CommitInput{
		SupervisorID: c.supervisor.ID,
		WorkerIDs:    []uint{c.a.ID, c.b.ID},
		CompanyName:  "Acme",
		StartDate:    "2024-03-01",
		EndDate:      "2024-03-15",
	}
}

func workerStatus(t *testing.T, e *Engine, id uint) models.WorkerStatus {
	t.Helper()
	w, err := e.Worker(context.Background(), id)
	require.NoError(t, err)
	return w.Status
}

// assertStatusInvariant checks that a worker is allocated exactly when an
// active allocation names them.
func assertStatusInvariant(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	workers, err := e.Workers(ctx)
	require.NoError(t, err)
	active, err := e.Allocations(ctx, store.Filter{"status": models.AllocationActive})
	require.NoError(t, err)
	busy := activeMembers(active, 0)
	for _, w := range workers {
		assert.Equal(t, busy[w.ID], w.IsAllocated(), "worker %d (%s)", w.ID, w.Name)
	}
}

func TestEngine_Commit(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)

	allocation, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)

	assert.Equal(t, models.AllocationActive, allocation.Status)
	assert.Equal(t, []uint{c.a.ID, c.b.ID}, allocation.WorkerIDs())
	assert.Equal(t, []string{"Alan", "Bea"}, allocation.WorkerNames())
	assert.Equal(t, "Grace", allocation.SupervisorName)
	assert.NotEmpty(t, allocation.CommitKey)

	for _, id := range []uint{c.supervisor.ID, c.a.ID, c.b.ID} {
		assert.Equal(t, models.WorkerAllocated, workerStatus(t, e, id))
	}

	jobs, err := e.Jobs(ctx, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	job := jobs[0]
	assert.Equal(t, allocation.JobID, job.ID)
	assert.Equal(t, models.JobPending, job.Status)
	assert.Equal(t, 2, job.NumWorkers)
	assert.Equal(t, "Acme", job.Title)
	assert.Equal(t, "Grace", job.SupervisorName)
	assert.Equal(t, "2024-03-15", job.DueDate.Format(models.DateLayout))
	assert.Equal(t, "2024-03-01", job.StartDate.Format(models.DateLayout))

	allocations, err := e.Allocations(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, allocations, 1)
	assertStatusInvariant(t, e)
}

func TestEngine_Commit_ValidationWritesNothing(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)

	cases := map[string]func(in *CommitInput){
		"no supervisor":      func(in *CommitInput) { in.SupervisorID = 0 },
		"no workers":         func(in *CommitInput) { in.WorkerIDs = nil },
		"no company":         func(in *CommitInput) { in.CompanyName = "  " },
		"no start date":      func(in *CommitInput) { in.StartDate = "" },
		"no end date":        func(in *CommitInput) { in.EndDate = "" },
		"bad date":           func(in *CommitInput) { in.StartDate = "03/01/2024" },
		"end before start":   func(in *CommitInput) { in.EndDate = "2024-02-28" },
		"duplicate worker":   func(in *CommitInput) { in.WorkerIDs = []uint{c.a.ID, c.a.ID} },
		"supervisor as crew": func(in *CommitInput) { in.WorkerIDs = []uint{c.supervisor.ID} },
		"worker as lead":     func(in *CommitInput) { in.SupervisorID = c.b.ID; in.WorkerIDs = []uint{c.a.ID} },
		"supervisor in crew": func(in *CommitInput) {
			other := seedWorker(t, e, "Sam", "Shift supervisor")
			in.WorkerIDs = []uint{c.a.ID, other.ID}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := acmeInput(c)
			mutate(&in)
			_, err := e.Commit(ctx, in)
			var validation *ValidationError
			require.True(t, errors.As(err, &validation), "got %v", err)

			allocations, err := e.Allocations(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, allocations)
			jobs, err := e.Jobs(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, jobs)
			workers, err := e.Workers(ctx)
			require.NoError(t, err)
			for _, w := range workers {
				assert.Equal(t, models.WorkerNotAllocated, w.Status)
			}
		})
	}
}

func TestEngine_Commit_UnknownWorker(t *testing.T) {
	e, _ := setupEngine(t)
	c := seedCrew(t, e)

	in := acmeInput(c)
	in.WorkerIDs = []uint{c.a.ID, 999}
	_, err := e.Commit(context.Background(), in)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, uint(999), notFound.ID)
	assertStatusInvariant(t, e)
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, c.a.ID))
}

func TestEngine_Commit_Conflict(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)
	other := seedWorker(t, e, "Otto", "Yard Supervisor")

	_, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)

	_, err = e.Commit(ctx, CommitInput{
		SupervisorID: other.ID,
		WorkerIDs:    []uint{c.b.ID},
		CompanyName:  "Globex",
		StartDate:    "2024-03-02",
		EndDate:      "2024-03-20",
	})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, []uint{c.b.ID}, conflict.WorkerIDs)

	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, other.ID))
	jobs, err := e.Jobs(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assertStatusInvariant(t, e)
}

func TestEngine_Commit_StaleStatusIsRejected(t *testing.T) {
	e, db := setupEngine(t)
	c := seedCrew(t, e)

	// Another writer flipped Bea after the eligibility snapshot was taken.
	require.NoError(t, db.Model(&models.Worker{}).Where("id = ?", c.b.ID).
		Update("status", models.WorkerAllocated).Error)

	_, err := e.Commit(context.Background(), acmeInput(c))
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, []uint{c.b.ID}, conflict.WorkerIDs)
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, c.a.ID))
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, c.supervisor.ID))
}

func TestEngine_Commit_KeyIsIdempotent(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)

	in := acmeInput(c)
	in.CommitKey = "retry-1"
	first, err := e.Commit(ctx, in)
	require.NoError(t, err)
	second, err := e.Commit(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	allocations, err := e.Allocations(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, allocations, 1)
	jobs, err := e.Jobs(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestEngine_Commit_KeyReusedForDifferentRequest(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)
	otto := seedWorker(t, e, "Otto", "Supervisor")
	cy := seedWorker(t, e, "Cy", "Rigger")

	in := acmeInput(c)
	in.CommitKey = "k"
	first, err := e.Commit(ctx, in)
	require.NoError(t, err)

	_, err = e.Commit(ctx, CommitInput{
		SupervisorID: otto.ID,
		WorkerIDs:    []uint{cy.ID},
		CompanyName:  "Globex",
		StartDate:    "2024-03-20",
		EndDate:      "2024-03-22",
		CommitKey:    "k",
	})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)

	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, otto.ID))
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, cy.ID))
	allocations, err := e.Allocations(ctx, nil)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, first.ID, allocations[0].ID)
	assertStatusInvariant(t, e)
}

func TestEngine_RemoveAllocation(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)

	allocation, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)

	require.NoError(t, e.RemoveAllocation(ctx, allocation.ID))

	for _, id := range []uint{c.supervisor.ID, c.a.ID, c.b.ID} {
		assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, id))
	}
	allocations, err := e.Allocations(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, allocations)
	assertStatusInvariant(t, e)

	err = e.RemoveAllocation(ctx, allocation.ID)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound), "got %v", err)
}

func TestEngine_RemoveAllocation_KeepsOtherActiveMembers(t *testing.T) {
	e, db := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)
	other := seedWorker(t, e, "Otto", "Yard Supervisor")
	extra := seedWorker(t, e, "Cy", "Rigger")

	first, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)
	second, err := e.Commit(ctx, CommitInput{
		SupervisorID: other.ID,
		WorkerIDs:    []uint{extra.ID},
		CompanyName:  "Globex",
		StartDate:    "2024-03-02",
		EndDate:      "2024-03-20",
	})
	require.NoError(t, err)

	// Simulate legacy data where Alan ended up on both allocations.
	require.NoError(t, db.Create(&models.AllocationWorker{
		AllocationID: second.ID, WorkerID: c.a.ID, WorkerName: "Alan",
	}).Error)

	require.NoError(t, e.RemoveAllocation(ctx, first.ID))
	assert.Equal(t, models.WorkerAllocated, workerStatus(t, e, c.a.ID))
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, c.b.ID))
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, c.supervisor.ID))
	assertStatusInvariant(t, e)
}

func TestEngine_CompleteJob(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)

	allocation, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)

	require.NoError(t, e.CompleteJob(ctx, allocation.JobID, models.JobInProgress))
	assert.Equal(t, models.WorkerAllocated, workerStatus(t, e, c.a.ID))

	require.NoError(t, e.CompleteJob(ctx, allocation.JobID, models.JobCompleted))

	got, err := e.Allocation(ctx, allocation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	job, err := e.Job(ctx, allocation.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)

	for _, id := range []uint{c.supervisor.ID, c.a.ID, c.b.ID} {
		assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, id))
	}
	assertStatusInvariant(t, e)

	// Repeating the call must not disturb a new allocation of the same crew.
	next, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)
	require.NoError(t, e.CompleteJob(ctx, allocation.JobID, models.JobCompleted))
	assert.Equal(t, models.WorkerAllocated, workerStatus(t, e, c.a.ID))
	got, err = e.Allocation(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationActive, got.Status)
	assertStatusInvariant(t, e)
}

func TestEngine_CompleteJob_Errors(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	var notFound *NotFoundError
	assert.True(t, errors.As(e.CompleteJob(ctx, 42, models.JobCompleted), &notFound))

	var validation *ValidationError
	assert.True(t, errors.As(e.CompleteJob(ctx, 42, "DONE"), &validation))
}

func TestEngine_CompleteJob_Standalone(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	job, err := e.CreateJob(ctx, JobInput{Title: "Gate repair", StartDate: "2024-03-01", DueDate: "2024-03-05"})
	require.NoError(t, err)

	require.NoError(t, e.CompleteJob(ctx, job.ID, models.JobCompleted))
	got, err := e.Job(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, got.Status)

	require.NoError(t, e.CompleteJob(ctx, job.ID, models.JobPending))
	got, err = e.Job(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobPending, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestEngine_CompleteAllocation(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)

	allocation, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)

	require.NoError(t, e.CompleteAllocation(ctx, allocation.ID))
	require.NoError(t, e.CompleteAllocation(ctx, allocation.ID))

	job, err := e.Job(ctx, allocation.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, job.Status)
	assert.Equal(t, models.WorkerNotAllocated, workerStatus(t, e, c.b.ID))
	assertStatusInvariant(t, e)
}

func TestEngine_Eligibility(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()
	c := seedCrew(t, e)
	other := seedWorker(t, e, "Otto", "Yard Supervisor")
	extra := seedWorker(t, e, "Cy", "Rigger")

	_, err := e.Commit(ctx, acmeInput(c))
	require.NoError(t, err)

	supervisors, workers, err := e.Eligibility(ctx)
	require.NoError(t, err)
	require.Len(t, supervisors, 1)
	assert.Equal(t, other.ID, supervisors[0].ID)
	require.Len(t, workers, 1)
	assert.Equal(t, extra.ID, workers[0].ID)
}
