package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
)

type DecisionUseCase struct {
	base
	dispatcher
}

type DecisionInput struct {
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ActorName   *string    `json:"actor_name"`
	DecidedAt   *time.Time `json:"decided_at"`
}

func (uc *DecisionUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.Decision, error) {
	decisions, err := uc.db.DecisionRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.Preload("Project"),
		database.OrderBy("decided_at DESC"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "decisions", err)
	}
	return decisions, nil
}

func (uc *DecisionUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.Decision, error) {
	decision, err := uc.db.DecisionRepo().Get(ctx, a.AccountID, id, database.Preload("Project"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "decision", err)
	}
	return decision, nil
}

func (uc *DecisionUseCase) Create(ctx context.Context, a Actor, in DecisionInput) (*models.Decision, error) {
	var decision models.Decision

	var pending pendingNotice
	err := uc.db.Transaction(ctx, func(tx database.Database) error {
		if err := uc.apply(ctx, tx, a, &decision, in); err != nil {
			return err
		}
		if err := tx.DecisionRepo().Create(ctx, a.AccountID, &decision); err != nil {
			return errs.NewDatabaseError("create", "decision", err)
		}

		var err error
		pending, err = uc.persist(ctx, tx, a.AccountID, decisionNotice(decision))
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.deliver(ctx, pending)
	return &decision, nil
}

func (uc *DecisionUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in DecisionInput) (*models.Decision, error) {
	decision, err := uc.db.DecisionRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "decision", err)
	}
	in.ProjectID = decision.ProjectID
	if in.DecidedAt == nil {
		in.DecidedAt = &decision.DecidedAt
	}
	if err := uc.apply(ctx, uc.db, a, decision, in); err != nil {
		return nil, err
	}
	if err := uc.db.DecisionRepo().Update(ctx, a.AccountID, decision); err != nil {
		return nil, errs.NewDatabaseError("update", "decision", err)
	}
	return decision, nil
}

func (uc *DecisionUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.DecisionRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "decision", err)
	}
	return nil
}

func (uc *DecisionUseCase) apply(ctx context.Context, db database.Database, a Actor, d *models.Decision, in DecisionInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	if _, err := requireProject(ctx, db, a, in.ProjectID); err != nil {
		return err
	}

	d.ProjectID = in.ProjectID
	d.Title = title
	d.Description = trimmed(in.Description)
	d.ActorName = trimmed(in.ActorName)
	if in.DecidedAt != nil {
		d.DecidedAt = in.DecidedAt.UTC()
	} else {
		d.DecidedAt = uc.now()
	}
	return nil
}

func decisionNotice(d models.Decision) services.Notice {
	return services.Notice{
		Type:        NoticeDecisionLogged,
		Subject:     "Decision logged",
		Lines:       []string{d.Title},
		ActionLabel: "View decisions",
		ActionPath:  "/decisions",
		Channels:    allChannels,
		Data: map[string]any{
			"id":         d.ID,
			"title":      d.Title,
			"project_id": d.ProjectID,
		},
	}
}
