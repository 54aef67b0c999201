package models

import "github.com/google/uuid"

const (
	RoleOwner        = "owner"
	RoleCollaborator = "collaborator"
)

func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleCollaborator
}

// Membership links a user to an account with a role. It declares its own
// account column so the (account_id, user_id) pair can be unique.
type Membership struct {
	Base
	AccountID uuid.UUID `json:"account_id" db:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_membership_account_user,priority:1"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_membership_account_user,priority:2"`
	Role      string    `json:"role" db:"role" gorm:"type:text;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (m *Membership) SetAccountID(id uuid.UUID) {
	m.AccountID = id
}
