package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Account is the tenant. Every domain row hangs off one.
type Account struct {
	Base
	Name               string     `json:"name" db:"name" gorm:"type:text;not null"`
	Slug               string     `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Address            *string    `json:"address,omitempty" db:"address" gorm:"type:text"`
	City               *string    `json:"city,omitempty" db:"city" gorm:"type:text"`
	Phone              *string    `json:"phone,omitempty" db:"phone" gorm:"type:text"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	SubscriptionStatus string     `json:"subscription_status" db:"subscription_status" gorm:"type:text;not null"`
}

// OnTrial reports whether the trial window is still open at now.
func (a Account) OnTrial(now time.Time) bool {
	return a.TrialEndsAt != nil && a.TrialEndsAt.After(now)
}

// HasAccess is the subscription gate: on trial, or a live billing subscription.
func (a Account) HasAccess(now time.Time) bool {
	if a.OnTrial(now) {
		return true
	}
	return a.SubscriptionStatus == SubscriptionActive || a.SubscriptionStatus == SubscriptionTrialing
}

// User is a person who can sign in. Accounts are reached through memberships.
type User struct {
	Base
	Name             string     `json:"name" db:"name" gorm:"type:text;not null"`
	Email            string     `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	CurrentAccountID *uuid.UUID `json:"current_account_id,omitempty" db:"current_account_id" gorm:"type:uuid"`
}
