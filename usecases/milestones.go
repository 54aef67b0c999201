package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

type MilestoneUseCase struct {
	base
}

type MilestoneInput struct {
	ProjectID   uuid.UUID    `json:"project_id"`
	Title       string       `json:"title"`
	Status      *string      `json:"status"`
	DueDate     *models.Date `json:"due_date"`
	OwnerName   *string      `json:"owner_name"`
	Description *string      `json:"description"`
}

func (uc *MilestoneUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.ProjectMilestone, error) {
	milestones, err := uc.db.MilestoneRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.OrderBy("due_date, created_at"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "milestones", err)
	}
	return milestones, nil
}

func (uc *MilestoneUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.ProjectMilestone, error) {
	milestone, err := uc.db.MilestoneRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "milestone", err)
	}
	return milestone, nil
}

func (uc *MilestoneUseCase) Create(ctx context.Context, a Actor, in MilestoneInput) (*models.ProjectMilestone, error) {
	milestone := models.ProjectMilestone{Status: models.MilestoneStatusPending}
	if err := uc.apply(ctx, a, &milestone, in); err != nil {
		return nil, err
	}
	if err := uc.db.MilestoneRepo().Create(ctx, a.AccountID, &milestone); err != nil {
		return nil, errs.NewDatabaseError("create", "milestone", err)
	}
	return &milestone, nil
}

func (uc *MilestoneUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in MilestoneInput) (*models.ProjectMilestone, error) {
	milestone, err := uc.db.MilestoneRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "milestone", err)
	}
	in.ProjectID = milestone.ProjectID
	if err := uc.apply(ctx, a, milestone, in); err != nil {
		return nil, err
	}
	if err := uc.db.MilestoneRepo().Update(ctx, a.AccountID, milestone); err != nil {
		return nil, errs.NewDatabaseError("update", "milestone", err)
	}
	return milestone, nil
}

func (uc *MilestoneUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.MilestoneRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "milestone", err)
	}
	return nil
}

func (uc *MilestoneUseCase) apply(ctx context.Context, a Actor, m *models.ProjectMilestone, in MilestoneInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	if _, err := requireProject(ctx, uc.db, a, in.ProjectID); err != nil {
		return err
	}

	m.ProjectID = in.ProjectID
	m.Title = title
	m.Status = orDefault(in.Status, m.Status)
	m.DueDate = in.DueDate
	m.OwnerName = trimmed(in.OwnerName)
	m.Description = trimmed(in.Description)
	return nil
}
