// Package reports derives read-only views from the roster: approaching
// deadlines, dashboard counters and CSV exports.
package reports

import (
	"fmt"
	"math"
	"sort"
	"time"

	"workforce/models"
)

type Deadline struct {
	JobID         uint      `json:"job_id"`
	Title         string    `json:"title"`
	DueDate       time.Time `json:"due_date"`
	DaysRemaining int       `json:"days_remaining"`
	Label         string    `json:"label"`
}

// UpcomingDeadlines lists in-progress jobs due within windowDays of now,
// soonest first. Days are rounded up, so a job due later today counts as
// due tomorrow once less than a day remains.
func UpcomingDeadlines(jobs []models.Job, now time.Time, windowDays int) []Deadline {
	out := make([]Deadline, 0)
	for _, job := range jobs {
		if job.Status != models.JobInProgress {
			continue
		}
		days := DaysRemaining(job.DueDate, now)
		if days < 0 || days > windowDays {
			continue
		}
		out = append(out, Deadline{
			JobID:         job.ID,
			Title:         job.Title,
			DueDate:       job.DueDate,
			DaysRemaining: days,
			Label:         DueLabel(days),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysRemaining < out[j].DaysRemaining
	})
	return out
}

func DaysRemaining(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func DueLabel(days int) string {
	switch days {
	case 0:
		return "Due today"
	case 1:
		return "Due tomorrow"
	}
	return fmt.Sprintf("Due in %d days", days)
}
