package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"github.com/shopspring/decimal"
)

type IncidentUseCase struct {
	base
	dispatcher
}

type IncidentInput struct {
	ProjectID   uuid.UUID        `json:"project_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	ImpactDays  *int             `json:"impact_days"`
	ImpactCost  *decimal.Decimal `json:"impact_cost"`
	ReportedBy  *string          `json:"reported_by"`
	ResolvedAt  *time.Time       `json:"resolved_at"`
}

func (uc *IncidentUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.Incident, error) {
	incidents, err := uc.db.IncidentRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.Preload("Project"),
		database.OrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "incidents", err)
	}
	return incidents, nil
}

func (uc *IncidentUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.Incident, error) {
	incident, err := uc.db.IncidentRepo().Get(ctx, a.AccountID, id, database.Preload("Project"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "incident", err)
	}
	return incident, nil
}

// Create records the incident and tells every account user about it.
func (uc *IncidentUseCase) Create(ctx context.Context, a Actor, in IncidentInput) (*models.Incident, error) {
	incident := models.Incident{Status: models.IncidentStatusOpen}

	var pending pendingNotice
	err := uc.db.Transaction(ctx, func(tx database.Database) error {
		if err := applyIncidentInput(ctx, tx, a, &incident, in); err != nil {
			return err
		}
		if err := tx.IncidentRepo().Create(ctx, a.AccountID, &incident); err != nil {
			return errs.NewDatabaseError("create", "incident", err)
		}

		var err error
		pending, err = uc.persist(ctx, tx, a.AccountID, incidentNotice(incident))
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.deliver(ctx, pending)
	return &incident, nil
}

func (uc *IncidentUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in IncidentInput) (*models.Incident, error) {
	incident, err := uc.db.IncidentRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "incident", err)
	}
	in.ProjectID = incident.ProjectID
	if err := applyIncidentInput(ctx, uc.db, a, incident, in); err != nil {
		return nil, err
	}
	if err := uc.db.IncidentRepo().Update(ctx, a.AccountID, incident); err != nil {
		return nil, errs.NewDatabaseError("update", "incident", err)
	}
	return incident, nil
}

func (uc *IncidentUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.IncidentRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "incident", err)
	}
	return nil
}

func applyIncidentInput(ctx context.Context, db database.Database, a Actor, i *models.Incident, in IncidentInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	impactDays := 0
	if in.ImpactDays != nil {
		impactDays = *in.ImpactDays
	}
	if impactDays < 0 {
		return errs.NewValidationError("impact_days", "impact_days must not be negative")
	}
	if in.ImpactCost != nil && in.ImpactCost.IsNegative() {
		return errs.NewValidationError("impact_cost", "impact_cost must not be negative")
	}
	if _, err := requireProject(ctx, db, a, in.ProjectID); err != nil {
		return err
	}

	i.ProjectID = in.ProjectID
	i.Title = title
	i.Description = trimmed(in.Description)
	i.Status = orDefault(in.Status, i.Status)
	i.ImpactDays = impactDays
	i.ImpactCost = nil
	if in.ImpactCost != nil {
		cost := in.ImpactCost.Round(2)
		i.ImpactCost = &cost
	}
	i.ReportedBy = trimmed(in.ReportedBy)
	i.ResolvedAt = in.ResolvedAt
	return nil
}

func incidentNotice(i models.Incident) services.Notice {
	return services.Notice{
		Type:        NoticeIncidentReported,
		Subject:     "Incident reported",
		Lines:       []string{i.Title, fmt.Sprintf("Impact: %d day(s)", i.ImpactDays)},
		ActionLabel: "View incidents",
		ActionPath:  "/incidents",
		Channels:    allChannels,
		Data: map[string]any{
			"id":          i.ID,
			"title":       i.Title,
			"project_id":  i.ProjectID,
			"impact_days": i.ImpactDays,
		},
	}
}
