package reports

import (
	"math"
	"time"

	"workforce/models"
)

type MonthCount struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
}

type Summary struct {
	TotalJobs          int          `json:"total_jobs"`
	JobsThisMonth      int          `json:"jobs_this_month"`
	ActiveJobs         int          `json:"active_jobs"`
	InProgressJobs     int          `json:"in_progress_jobs"`
	CompletedThisMonth int          `json:"completed_this_month"`
	AvgCompletionDays  float64      `json:"avg_completion_days"`
	TotalWorkers       int          `json:"total_workers"`
	AvailableWorkers   int          `json:"available_workers"`
	AllocatedWorkers   int          `json:"allocated_workers"`
	ActiveAllocations  int          `json:"active_allocations"`
	CompletedByMonth   []MonthCount `json:"completed_by_month"`
}

// trailingMonths is how many calendar months CompletedByMonth covers,
// ending with the month of now.
const trailingMonths = 6

func Summarize(workers []models.Worker, jobs []models.Job, allocations []models.Allocation, now time.Time) Summary {
	var s Summary
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.TotalWorkers = len(workers)
	for _, w := range workers {
		if w.IsAllocated() {
			s.AllocatedWorkers++
		} else {
			s.AvailableWorkers++
		}
	}

	for i := range allocations {
		if allocations[i].IsActive() {
			s.ActiveAllocations++
		}
	}

	first := monthStart.AddDate(0, -(trailingMonths - 1), 0)
	buckets := make([]MonthCount, trailingMonths)
	for i := range buckets {
		buckets[i].Month = first.AddDate(0, i, 0).Format("Jan")
	}

	var completionDays float64
	var completed int
	s.TotalJobs = len(jobs)
	for _, job := range jobs {
		if !job.CreatedAt.Before(monthStart) {
			s.JobsThisMonth++
		}
		switch job.Status {
		case models.JobInProgress:
			s.InProgressJobs++
			s.ActiveJobs++
		case models.JobPending:
			s.ActiveJobs++
		}
		if job.Status != models.JobCompleted || job.CompletedAt == nil {
			continue
		}

		done := *job.CompletedAt
		completed++
		completionDays += math.Max(0, done.Sub(job.StartDate).Hours()/24)
		if !done.Before(monthStart) {
			s.CompletedThisMonth++
		}
		if !done.Before(first) {
			idx := (done.Year()-first.Year())*12 + int(done.Month()) - int(first.Month())
			if idx >= 0 && idx < trailingMonths {
				buckets[idx].Completed++
			}
		}
	}
	if completed > 0 {
		s.AvgCompletionDays = math.Round(completionDays/float64(completed)*10) / 10
	}
	s.CompletedByMonth = buckets
	return s
}
