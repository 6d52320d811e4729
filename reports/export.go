package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"workforce/models"
)

func WriteJobsCSV(w io.Writer, jobs []models.Job) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"ID", "Title", "Supervisor", "Workers", "Start Date", "Due Date", "Status", "Completed"})
	for _, job := range jobs {
		completed := ""
		if job.CompletedAt != nil {
			completed = job.CompletedAt.Format(models.DateLayout)
		}
		writer.Write([]string{
			fmt.Sprint(job.ID),
			job.Title,
			job.SupervisorName,
			fmt.Sprint(job.NumWorkers),
			job.StartDate.Format(models.DateLayout),
			job.DueDate.Format(models.DateLayout),
			job.Status.Label(),
			completed,
		})
	}

	writer.Flush()
	return writer.Error()
}

func WriteAllocationsCSV(w io.Writer, allocations []models.Allocation) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"ID", "Company", "Supervisor", "Workers", "Start Date", "End Date", "Status", "Job ID"})
	for _, a := range allocations {
		writer.Write([]string{
			fmt.Sprint(a.ID),
			a.CompanyName,
			a.SupervisorName,
			strings.Join(a.WorkerNames(), "; "),
			a.StartDate.Format(models.DateLayout),
			a.EndDate.Format(models.DateLayout),
			string(a.Status),
			fmt.Sprint(a.JobID),
		})
	}

	writer.Flush()
	return writer.Error()
}
