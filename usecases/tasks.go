package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

var ErrPhaseOfOtherProject = errors.New("phase belongs to another project")

type TaskUseCase struct {
	base
}

type TaskInput struct {
	ProjectID     uuid.UUID    `json:"project_id"`
	PhaseID       *uuid.UUID   `json:"phase_id"`
	Title         string       `json:"title"`
	Status        *string      `json:"status"`
	AssignedTo    *string      `json:"assigned_to"`
	StartDate     *models.Date `json:"start_date"`
	EndDate       *models.Date `json:"end_date"`
	DurationDays  *int         `json:"duration_days"`
	Progress      *int         `json:"progress"`
	DueDate       *models.Date `json:"due_date"`
	RequiresPhoto *bool        `json:"requires_photo"`
}

func (uc *TaskUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.ProjectTask, error) {
	tasks, err := uc.db.TaskRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.Preload("Phase"),
		database.OrderBy("start_date, created_at"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tasks", err)
	}
	return tasks, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.ProjectTask, error) {
	task, err := uc.db.TaskRepo().Get(ctx, a.AccountID, id, database.Preload("Phase"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task", err)
	}
	return task, nil
}

func (uc *TaskUseCase) Create(ctx context.Context, a Actor, in TaskInput) (*models.ProjectTask, error) {
	title, err := required("title", in.Title)
	if err != nil {
		return nil, err
	}
	task := models.ProjectTask{
		Title:  title,
		Status: orDefault(in.Status, models.TaskStatusPending),
	}
	if err := uc.apply(ctx, a, &task, in); err != nil {
		return nil, err
	}

	if err := uc.db.TaskRepo().Create(ctx, a.AccountID, &task); err != nil {
		return nil, errs.NewDatabaseError("create", "task", err)
	}
	uc.logger.Info().Str("taskID", task.ID.String()).Str("projectID", task.ProjectID.String()).Msg("Task created")
	return &task, nil
}

// Update replaces every mutable field. Title and status are required. A
// task keeps its project unless project_id names another one of the account.
func (uc *TaskUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in TaskInput) (*models.ProjectTask, error) {
	task, err := uc.db.TaskRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task", err)
	}

	title, err := required("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.Status == nil {
		return nil, errs.NewMissingRequiredFieldError("status")
	}
	status, err := required("status", *in.Status)
	if err != nil {
		return nil, err
	}

	task.Title = title
	task.Status = status
	if in.ProjectID == uuid.Nil {
		in.ProjectID = task.ProjectID
	}
	if err := uc.apply(ctx, a, task, in); err != nil {
		return nil, err
	}

	if err := uc.db.TaskRepo().Update(ctx, a.AccountID, task); err != nil {
		return nil, errs.NewDatabaseError("update", "task", err)
	}
	return task, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.TaskRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "task", err)
	}
	return nil
}

// apply validates the shared fields of in and copies them onto task.
func (uc *TaskUseCase) apply(ctx context.Context, a Actor, task *models.ProjectTask, in TaskInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	if err := maxLength("title", task.Title, 255); err != nil {
		return err
	}
	if _, err := requireProject(ctx, uc.db, a, in.ProjectID); err != nil {
		return err
	}

	if in.PhaseID != nil {
		phase, err := uc.db.PhaseRepo().Get(ctx, a.AccountID, *in.PhaseID)
		if err != nil {
			return errs.NewDatabaseError("find", "phase", err)
		}
		if phase.ProjectID != in.ProjectID {
			return errs.NewBusinessRuleError(ErrPhaseOfOtherProject)
		}
	}

	progress := 0
	if in.Progress != nil {
		progress = *in.Progress
	}
	if err := percent("progress", progress); err != nil {
		return err
	}

	schedule, err := NormalizeSchedule(Schedule{StartDate: in.StartDate, EndDate: in.EndDate, DurationDays: in.DurationDays})
	if err != nil {
		return err
	}

	task.ProjectID = in.ProjectID
	task.PhaseID = in.PhaseID
	task.AssignedTo = trimmed(in.AssignedTo)
	task.StartDate = schedule.StartDate
	task.EndDate = schedule.EndDate
	task.DurationDays = schedule.DurationDays
	task.Progress = progress
	task.DueDate = in.DueDate
	task.RequiresPhoto = in.RequiresPhoto != nil && *in.RequiresPhoto
	return nil
}
