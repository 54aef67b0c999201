package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProjectStatusPreparation = "preparation"
	ProjectStatusInProgress  = "in_progress"
	ProjectStatusDelayed     = "delayed"
	ProjectStatusCompleted   = "completed"

	DefaultBudgetAlertThreshold = 10
)

// Project is a construction site. Budget alert settings drive overrun notifications
// for its budget items.
type Project struct {
	Base
	Tenant
	Name                 string          `json:"name" db:"name" gorm:"type:text;not null"`
	ClientName           *string         `json:"client_name,omitempty" db:"client_name" gorm:"type:text"`
	Address              *string         `json:"address,omitempty" db:"address" gorm:"type:text"`
	City                 *string         `json:"city,omitempty" db:"city" gorm:"type:text"`
	Status               string          `json:"status" db:"status" gorm:"type:text;not null;index"`
	Budget               decimal.Decimal `json:"budget" db:"budget" gorm:"type:decimal(12,2);not null"`
	StartDate            *Date           `json:"start_date,omitempty" db:"start_date"`
	EndDate              *Date           `json:"end_date,omitempty" db:"end_date"`
	Progress             int             `json:"progress" db:"progress" gorm:"not null"`
	BudgetAlertEnabled   bool            `json:"budget_alert_enabled" db:"budget_alert_enabled" gorm:"not null"`
	BudgetAlertThreshold int             `json:"budget_alert_threshold" db:"budget_alert_threshold" gorm:"not null"`

	Phases      []ProjectPhase      `json:"phases,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tasks       []ProjectTask       `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Milestones  []ProjectMilestone  `json:"milestones,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Contractors []ProjectContractor `json:"contractors,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Activities  []ProjectActivity   `json:"activities,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Messages    []ProjectMessage    `json:"messages,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// Contractor is a company or tradesperson the account works with.
type Contractor struct {
	Base
	Tenant
	Name            string  `json:"name" db:"name" gorm:"type:text;not null"`
	Company         *string `json:"company,omitempty" db:"company" gorm:"type:text"`
	Role            *string `json:"role,omitempty" db:"role" gorm:"type:text"`
	Email           *string `json:"email,omitempty" db:"email" gorm:"type:text"`
	Phone           *string `json:"phone,omitempty" db:"phone" gorm:"type:text"`
	InsurancePolicy *string `json:"insurance_policy,omitempty" db:"insurance_policy" gorm:"type:text"`
}

// ProjectContractor assigns a contractor to a project.
type ProjectContractor struct {
	Base
	Tenant
	ProjectID    uuid.UUID   `json:"project_id" db:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_contractor,priority:1"`
	ContractorID uuid.UUID   `json:"contractor_id" db:"contractor_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_contractor,priority:2"`
	Role         *string     `json:"role,omitempty" db:"role" gorm:"type:text"`
	Contractor   *Contractor `json:"contractor,omitempty" gorm:"foreignKey:ContractorID;references:ID;constraint:OnDelete:CASCADE"`
}
