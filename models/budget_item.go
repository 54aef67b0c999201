package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectBudgetItem is one line of a project budget. AlertedAt latches once an
// overrun notification has gone out for the line.
type ProjectBudgetItem struct {
	Base
	Tenant
	ProjectID       uuid.UUID       `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Name            string          `json:"name" db:"name" gorm:"type:text;not null"`
	Category        *string         `json:"category,omitempty" db:"category" gorm:"type:text"`
	EstimatedCost   decimal.Decimal `json:"estimated_cost" db:"estimated_cost" gorm:"type:decimal(12,2);not null"`
	CommittedCost   decimal.Decimal `json:"committed_cost" db:"committed_cost" gorm:"type:decimal(12,2);not null"`
	ActualCost      decimal.Decimal `json:"actual_cost" db:"actual_cost" gorm:"type:decimal(12,2);not null"`
	VariationAmount decimal.Decimal `json:"variation_amount" db:"variation_amount" gorm:"type:decimal(12,2);not null"`
	Notes           *string         `json:"notes,omitempty" db:"notes" gorm:"type:text"`
	AlertedAt       *time.Time      `json:"alerted_at,omitempty" db:"alerted_at"`
	Project         *Project        `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// Document is a versioned project document, optionally backed by an uploaded file.
type Document struct {
	Base
	Tenant
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" db:"title" gorm:"type:text;not null"`
	Category  *string   `json:"category,omitempty" db:"category" gorm:"type:text"`
	Version   string    `json:"version" db:"version" gorm:"type:text;not null"`
	Status    string    `json:"status" db:"status" gorm:"type:text;not null"`
	MediaKey  *string   `json:"media_key,omitempty" db:"media_key" gorm:"type:text"`
	Project   *Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}
