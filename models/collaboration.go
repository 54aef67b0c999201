package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CommentableTask       = "task"
	CommentableMilestone  = "milestone"
	CommentableDecision   = "decision"
	CommentableBudgetItem = "budget_item"

	ActivityBudgetOverrun = "budget_overrun"
	ActivityCommentAdded  = "comment_added"
	ActivityMessagePosted = "message_posted"
)

// Comment attaches to a task, milestone, decision or budget item.
type Comment struct {
	Base
	Tenant
	CommentableType string    `json:"commentable_type" db:"commentable_type" gorm:"type:text;not null;index:idx_commentable,priority:1"`
	CommentableID   uuid.UUID `json:"commentable_id" db:"commentable_id" gorm:"type:uuid;not null;index:idx_commentable,priority:2"`
	AuthorID        uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null"`
	Body            string    `json:"body" db:"body" gorm:"type:text;not null"`
	Author          *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

type ProjectMessage struct {
	Base
	Tenant
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null"`
	Body      string    `json:"body" db:"body" gorm:"type:text;not null"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProjectActivity is the project audit trail.
type ProjectActivity struct {
	Base
	Tenant
	ProjectID uuid.UUID      `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	ActorID   *uuid.UUID     `json:"actor_id,omitempty" db:"actor_id" gorm:"type:uuid"`
	Type      string         `json:"type" db:"type" gorm:"type:text;not null;index"`
	Payload   datatypes.JSON `json:"payload" db:"payload"`
}

// Notification is the persisted in-app channel. It belongs to a user, not an account.
type Notification struct {
	Base
	UserID uuid.UUID      `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index"`
	Type   string         `json:"type" db:"type" gorm:"type:text;not null"`
	Data   datatypes.JSON `json:"data" db:"data"`
	ReadAt *time.Time     `json:"read_at,omitempty" db:"read_at"`
}

// FeatureUsage records that an account used a feature on a given day.
type FeatureUsage struct {
	Base
	Tenant
	FeatureKey string    `json:"feature_key" db:"feature_key" gorm:"type:text;not null;index"`
	UsedAt     time.Time `json:"used_at" db:"used_at" gorm:"not null;index"`
}
