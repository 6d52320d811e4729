package models

import (
	"time"
)

type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
)

// Job is the companion record of an allocation, or a standalone entry made
// from the jobs page. SupervisorName and NumWorkers are copied at creation
// time and never refreshed.
type Job struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Title          string     `gorm:"not null;size:200" json:"title"`
	SupervisorID   *uint      `gorm:"index" json:"supervisor_id"`
	SupervisorName string     `gorm:"size:200" json:"supervisor_name"`
	NumWorkers     int        `gorm:"not null;default:0" json:"num_workers"`
	StartDate      time.Time  `gorm:"not null;type:date" json:"start_date"`
	DueDate        time.Time  `gorm:"not null;type:date" json:"due_date"`
	Status         JobStatus  `gorm:"not null;size:20;index" json:"status"`
	CompletedAt    *time.Time `json:"completed_at"`
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobInProgress, JobCompleted:
		return true
	}
	return false
}

func (s JobStatus) Label() string {
	switch s {
	case JobPending:
		return "Pending"
	case JobInProgress:
		return "In Progress"
	case JobCompleted:
		return "Completed"
	}
	return string(s)
}
