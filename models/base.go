package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every table.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Tenant marks a row as owned by one account.
type Tenant struct {
	AccountID uuid.UUID `json:"account_id" db:"account_id" gorm:"type:uuid;not null;index"`
}

func (t *Tenant) SetAccountID(id uuid.UUID) {
	t.AccountID = id
}

func (t Tenant) OwnedBy(id uuid.UUID) bool {
	return t.AccountID == id
}

// Tenanted is implemented by every account-owned model through the embedded Tenant.
type Tenanted interface {
	SetAccountID(id uuid.UUID)
}
