package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/models"
	"gorm.io/gorm"
)

type BudgetItemRepo struct {
	*Scoped[models.ProjectBudgetItem]
}

func NewBudgetItemRepo(db *gorm.DB) *BudgetItemRepo {
	return &BudgetItemRepo{NewScoped[models.ProjectBudgetItem](db)}
}

type BudgetFilter struct {
	ProjectID *uuid.UUID
	Category  string
	Search    string
}

func (f BudgetFilter) scopes() []Scope {
	return []Scope{
		WhereOptional("project_id", f.ProjectID),
		WhereContains("category", f.Category),
		WhereContains("name", f.Search),
	}
}

func (r *BudgetItemRepo) Search(ctx context.Context, accountID uuid.UUID, f BudgetFilter) ([]models.ProjectBudgetItem, error) {
	return r.List(ctx, accountID, append(f.scopes(), Preload("Project"), OrderBy("created_at DESC"))...)
}

// MarkAlerted sets the overrun latch. It only ever moves from null to a time.
func (r *BudgetItemRepo) MarkAlerted(ctx context.Context, accountID, id uuid.UUID, at time.Time) error {
	return r.Query(ctx, accountID).
		Where("id = ? AND alerted_at IS NULL", id).
		Update("alerted_at", at).Error
}

type TaskDependencyRepo struct {
	*Scoped[models.ProjectTaskDependency]
}

func NewTaskDependencyRepo(db *gorm.DB) *TaskDependencyRepo {
	return &TaskDependencyRepo{NewScoped[models.ProjectTaskDependency](db)}
}

func (r *TaskDependencyRepo) EdgeExists(ctx context.Context, accountID, taskID, dependsOnTaskID uuid.UUID) (bool, error) {
	count, err := r.Count(ctx, accountID, WhereEq("task_id", taskID), WhereEq("depends_on_task_id", dependsOnTaskID))
	return count > 0, err
}

type FeatureUsageRepo struct {
	*Scoped[models.FeatureUsage]
}

func NewFeatureUsageRepo(db *gorm.DB) *FeatureUsageRepo {
	return &FeatureUsageRepo{NewScoped[models.FeatureUsage](db)}
}

// CountBetween counts usage rows for key with from <= used_at < to.
func (r *FeatureUsageRepo) CountBetween(ctx context.Context, accountID uuid.UUID, key string, from, to time.Time) (int64, error) {
	return r.Count(ctx, accountID, func(db *gorm.DB) *gorm.DB {
		return db.Where("feature_key = ? AND used_at >= ? AND used_at < ?", key, from, to)
	})
}

func (r *FeatureUsageRepo) Since(ctx context.Context, accountID uuid.UUID, from time.Time) ([]models.FeatureUsage, error) {
	return r.List(ctx, accountID, func(db *gorm.DB) *gorm.DB {
		return db.Where("used_at >= ?", from).Order("used_at")
	})
}
