package models

import (
	"github.com/google/uuid"
)

const (
	TaskStatusPending      = "pending"
	MilestoneStatusPending = "pending"
	MilestoneStatusDone    = "done"

	DependencyFinishToStart = "finish_to_start"
)

type ProjectPhase struct {
	Base
	Tenant
	ProjectID   uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description *string   `json:"description,omitempty" db:"description" gorm:"type:text"`
	StartDate   *Date     `json:"start_date,omitempty" db:"start_date"`
	EndDate     *Date     `json:"end_date,omitempty" db:"end_date"`
	Position    int       `json:"position" db:"position" gorm:"not null"`
}

// ProjectTask is a schedulable unit of work. Dates are calendar days and
// DurationDays counts both ends inclusively.
type ProjectTask struct {
	Base
	Tenant
	ProjectID     uuid.UUID     `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	PhaseID       *uuid.UUID    `json:"phase_id,omitempty" db:"phase_id" gorm:"type:uuid;index"`
	Title         string        `json:"title" db:"title" gorm:"type:text;not null"`
	Status        string        `json:"status" db:"status" gorm:"type:text;not null"`
	AssignedTo    *string       `json:"assigned_to,omitempty" db:"assigned_to" gorm:"type:text"`
	StartDate     *Date         `json:"start_date,omitempty" db:"start_date"`
	EndDate       *Date         `json:"end_date,omitempty" db:"end_date"`
	DurationDays  *int          `json:"duration_days,omitempty" db:"duration_days"`
	Progress      int           `json:"progress" db:"progress" gorm:"not null"`
	DueDate       *Date         `json:"due_date,omitempty" db:"due_date"`
	RequiresPhoto bool          `json:"requires_photo" db:"requires_photo" gorm:"not null"`
	Phase         *ProjectPhase `json:"phase,omitempty" gorm:"foreignKey:PhaseID;references:ID;constraint:OnDelete:SET NULL"`
}

// ProjectTaskDependency is a directed edge: TaskID depends on DependsOnTaskID.
// DependencyType is stored, never interpreted.
type ProjectTaskDependency struct {
	Base
	Tenant
	ProjectID       uuid.UUID    `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	TaskID          uuid.UUID    `json:"task_id" db:"task_id" gorm:"type:uuid;not null;uniqueIndex:idx_task_dependency,priority:1"`
	DependsOnTaskID uuid.UUID    `json:"depends_on_task_id" db:"depends_on_task_id" gorm:"type:uuid;not null;uniqueIndex:idx_task_dependency,priority:2"`
	DependencyType  string       `json:"dependency_type" db:"dependency_type" gorm:"type:text;not null"`
	Task            *ProjectTask `json:"task,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
	DependsOnTask   *ProjectTask `json:"depends_on_task,omitempty" gorm:"foreignKey:DependsOnTaskID;references:ID;constraint:OnDelete:CASCADE"`
}

type ProjectMilestone struct {
	Base
	Tenant
	ProjectID   uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	Status      string    `json:"status" db:"status" gorm:"type:text;not null"`
	DueDate     *Date     `json:"due_date,omitempty" db:"due_date"`
	OwnerName   *string   `json:"owner_name,omitempty" db:"owner_name" gorm:"type:text"`
	Description *string   `json:"description,omitempty" db:"description" gorm:"type:text"`
}
