package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	IncidentStatusOpen = "open"

	ValidationStatusPending  = "pending"
	ValidationStatusApproved = "approved"
	ValidationStatusRejected = "rejected"
)

type Incident struct {
	Base
	Tenant
	ProjectID   uuid.UUID        `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Title       string           `json:"title" db:"title" gorm:"type:text;not null"`
	Description *string          `json:"description,omitempty" db:"description" gorm:"type:text"`
	Status      string           `json:"status" db:"status" gorm:"type:text;not null"`
	ImpactDays  int              `json:"impact_days" db:"impact_days" gorm:"not null"`
	ImpactCost  *decimal.Decimal `json:"impact_cost,omitempty" db:"impact_cost" gorm:"type:decimal(12,2)"`
	ReportedBy  *string          `json:"reported_by,omitempty" db:"reported_by" gorm:"type:text"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty" db:"resolved_at"`
	Project     *Project         `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

type Validation struct {
	Base
	Tenant
	ProjectID   uuid.UUID  `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Type        string     `json:"type" db:"type" gorm:"type:text;not null"`
	Status      string     `json:"status" db:"status" gorm:"type:text;not null"`
	RequestedBy *string    `json:"requested_by,omitempty" db:"requested_by" gorm:"type:text"`
	DecidedBy   *string    `json:"decided_by,omitempty" db:"decided_by" gorm:"type:text"`
	DecidedAt   *time.Time `json:"decided_at,omitempty" db:"decided_at"`
	Project     *Project   `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

type Decision struct {
	Base
	Tenant
	ProjectID   uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description *string   `json:"description,omitempty" db:"description" gorm:"type:text"`
	ActorName   *string   `json:"actor_name,omitempty" db:"actor_name" gorm:"type:text"`
	DecidedAt   time.Time `json:"decided_at" db:"decided_at" gorm:"not null"`
	Project     *Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

type Photo struct {
	Base
	Tenant
	ProjectID     uuid.UUID    `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	ProjectTaskID *uuid.UUID   `json:"project_task_id,omitempty" db:"project_task_id" gorm:"type:uuid;index"`
	Caption       *string      `json:"caption,omitempty" db:"caption" gorm:"type:text"`
	TakenAt       *time.Time   `json:"taken_at,omitempty" db:"taken_at"`
	MediaKey      string       `json:"media_key" db:"media_key" gorm:"type:text;not null"`
	Project       *Project     `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Task          *ProjectTask `json:"task,omitempty" gorm:"foreignKey:ProjectTaskID;references:ID;constraint:OnDelete:SET NULL"`
}
