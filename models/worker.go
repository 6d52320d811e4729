package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type WorkerStatus string

const (
	WorkerNotAllocated WorkerStatus = "NOT_ALLOCATED"
	WorkerAllocated    WorkerStatus = "ALLOCATED"
)

// RoleKind is the explicit supervisor/worker classification. Rows created
// before the column existed carry an empty kind and fall back to matching
// the free-text role.
type RoleKind string

const (
	KindSupervisor RoleKind = "SUPERVISOR"
	KindWorker     RoleKind = "WORKER"
)

type Worker struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null;size:200" json:"name"`
	Role      string         `gorm:"not null;size:100" json:"role"`
	Kind      RoleKind       `gorm:"size:20" json:"kind"`
	Email     string         `gorm:"size:200" json:"email"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Status    WorkerStatus   `gorm:"not null;size:20;index" json:"status"`
}

// ClassifyRole derives a RoleKind from free-text role.
func ClassifyRole(role string) RoleKind {
	if strings.Contains(strings.ToLower(role), "supervisor") {
		return KindSupervisor
	}
	return KindWorker
}

func (w Worker) IsSupervisor() bool {
	if w.Kind != "" {
		return w.Kind == KindSupervisor
	}
	return ClassifyRole(w.Role) == KindSupervisor
}

func (w Worker) IsAllocated() bool {
	return w.Status == WorkerAllocated
}

func (s WorkerStatus) Label() string {
	switch s {
	case WorkerAllocated:
		return "Work Assigned"
	case WorkerNotAllocated:
		return "Not Assigned"
	}
	return string(s)
}
