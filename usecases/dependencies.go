package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

var (
	ErrSelfDependency         = errors.New("a task cannot depend on itself")
	ErrCrossProjectDependency = errors.New("both tasks must belong to the same project")
)

// DependencyUseCase manages the task graph. Cycles are allowed.
type DependencyUseCase struct {
	base
}

type DependencyInput struct {
	ProjectID       uuid.UUID `json:"project_id"`
	TaskID          uuid.UUID `json:"task_id"`
	DependsOnTaskID uuid.UUID `json:"depends_on_task_id"`
	DependencyType  *string   `json:"dependency_type"`
}

func (uc *DependencyUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.ProjectTaskDependency, error) {
	edges, err := uc.db.TaskDependencyRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.OrderBy("created_at"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task dependencies", err)
	}
	return edges, nil
}

func (uc *DependencyUseCase) Create(ctx context.Context, a Actor, in DependencyInput) (*models.ProjectTaskDependency, error) {
	if in.TaskID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("task_id")
	}
	if in.DependsOnTaskID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("depends_on_task_id")
	}
	if in.TaskID == in.DependsOnTaskID {
		return nil, errs.NewBusinessRuleError(ErrSelfDependency)
	}

	task, err := uc.db.TaskRepo().Get(ctx, a.AccountID, in.TaskID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task", err)
	}
	dependsOn, err := uc.db.TaskRepo().Get(ctx, a.AccountID, in.DependsOnTaskID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task", err)
	}

	projectID := in.ProjectID
	if projectID == uuid.Nil {
		projectID = task.ProjectID
	}
	if _, err := requireProject(ctx, uc.db, a, projectID); err != nil {
		return nil, err
	}
	if task.ProjectID != projectID || dependsOn.ProjectID != projectID {
		return nil, errs.NewBusinessRuleError(ErrCrossProjectDependency)
	}

	exists, err := uc.db.TaskDependencyRepo().EdgeExists(ctx, a.AccountID, task.ID, dependsOn.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task dependency", err)
	}
	if exists {
		return nil, errs.NewAlreadyExists("task dependency")
	}

	edge := models.ProjectTaskDependency{
		ProjectID:       projectID,
		TaskID:          task.ID,
		DependsOnTaskID: dependsOn.ID,
		DependencyType:  orDefault(in.DependencyType, models.DependencyFinishToStart),
	}
	if err := uc.db.TaskDependencyRepo().Create(ctx, a.AccountID, &edge); err != nil {
		return nil, errs.NewDatabaseError("create", "task dependency", err)
	}
	return &edge, nil
}

func (uc *DependencyUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.TaskDependencyRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "task dependency", err)
	}
	return nil
}
