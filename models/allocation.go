package models

import (
	"time"
)

type AllocationStatus string

const (
	AllocationActive    AllocationStatus = "ACTIVE"
	AllocationCompleted AllocationStatus = "COMPLETED"
)

// DateLayout is the wire format for allocation and job dates.
const DateLayout = "2006-01-02"

type Allocation struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	JobID          uint               `gorm:"not null;index" json:"job_id"`
	CommitKey      string             `gorm:"uniqueIndex;not null;size:64" json:"commit_key"`
	SupervisorID   uint               `gorm:"not null;index" json:"supervisor_id"`
	SupervisorName string             `gorm:"size:200" json:"supervisor_name"`
	CompanyName    string             `gorm:"not null;size:200" json:"company_name"`
	StartDate      time.Time          `gorm:"not null;type:date" json:"start_date"`
	EndDate        time.Time          `gorm:"not null;type:date" json:"end_date"`
	Status         AllocationStatus   `gorm:"not null;size:20;index" json:"status"`
	CompletedAt    *time.Time         `json:"completed_at"`
	Workers        []AllocationWorker `gorm:"foreignKey:AllocationID" json:"workers"`
}

// AllocationWorker is one worker named on an allocation. The name is a
// snapshot taken at commit time.
type AllocationWorker struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	AllocationID uint   `gorm:"not null;index" json:"-"`
	WorkerID     uint   `gorm:"not null;index" json:"worker_id"`
	WorkerName   string `gorm:"size:200" json:"worker_name"`
}

func (a *Allocation) IsActive() bool {
	return a.Status == AllocationActive
}

func (a *Allocation) WorkerIDs() []uint {
	ids := make([]uint, 0, len(a.Workers))
	for _, w := range a.Workers {
		ids = append(ids, w.WorkerID)
	}
	return ids
}

func (a *Allocation) WorkerNames() []string {
	names := make([]string, 0, len(a.Workers))
	for _, w := range a.Workers {
		names = append(names, w.WorkerName)
	}
	return names
}

// MemberIDs returns the supervisor followed by every worker on the allocation.
func (a *Allocation) MemberIDs() []uint {
	return append([]uint{a.SupervisorID}, a.WorkerIDs()...)
}

// References reports whether the worker is the supervisor or a member.
func (a *Allocation) References(workerID uint) bool {
	if a.SupervisorID == workerID {
		return true
	}
	for _, w := range a.Workers {
		if w.WorkerID == workerID {
			return true
		}
	}
	return false
}
