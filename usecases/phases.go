package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

type PhaseUseCase struct {
	base
}

type PhaseInput struct {
	ProjectID   uuid.UUID    `json:"project_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	StartDate   *models.Date `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`
	Position    *int         `json:"position"`
}

func (uc *PhaseUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.ProjectPhase, error) {
	phases, err := uc.db.PhaseRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.OrderBy("position, created_at"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "phases", err)
	}
	return phases, nil
}

func (uc *PhaseUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.ProjectPhase, error) {
	phase, err := uc.db.PhaseRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "phase", err)
	}
	return phase, nil
}

// Create appends the phase after the existing ones unless a position is given.
func (uc *PhaseUseCase) Create(ctx context.Context, a Actor, in PhaseInput) (*models.ProjectPhase, error) {
	var phase models.ProjectPhase
	if err := uc.apply(ctx, a, &phase, in); err != nil {
		return nil, err
	}
	if in.Position == nil {
		count, err := uc.db.PhaseRepo().Count(ctx, a.AccountID, database.WhereEq("project_id", in.ProjectID))
		if err != nil {
			return nil, errs.NewDatabaseError("count", "phases", err)
		}
		phase.Position = int(count)
	}

	if err := uc.db.PhaseRepo().Create(ctx, a.AccountID, &phase); err != nil {
		return nil, errs.NewDatabaseError("create", "phase", err)
	}
	return &phase, nil
}

func (uc *PhaseUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in PhaseInput) (*models.ProjectPhase, error) {
	phase, err := uc.db.PhaseRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "phase", err)
	}
	in.ProjectID = phase.ProjectID
	if err := uc.apply(ctx, a, phase, in); err != nil {
		return nil, err
	}
	if err := uc.db.PhaseRepo().Update(ctx, a.AccountID, phase); err != nil {
		return nil, errs.NewDatabaseError("update", "phase", err)
	}
	return phase, nil
}

func (uc *PhaseUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.PhaseRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "phase", err)
	}
	return nil
}

func (uc *PhaseUseCase) apply(ctx context.Context, a Actor, p *models.ProjectPhase, in PhaseInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	if in.StartDate != nil && in.EndDate != nil && dayOf(*in.EndDate).Before(dayOf(*in.StartDate)) {
		return errs.NewValidationError("end_date", "end_date must be on or after start_date")
	}
	if in.Position != nil && *in.Position < 0 {
		return errs.NewValidationError("position", "position must not be negative")
	}
	if _, err := requireProject(ctx, uc.db, a, in.ProjectID); err != nil {
		return err
	}

	p.ProjectID = in.ProjectID
	p.Title = title
	p.Description = trimmed(in.Description)
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	if in.Position != nil {
		p.Position = *in.Position
	}
	return nil
}
