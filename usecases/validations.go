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

var validationStatuses = map[string]bool{
	models.ValidationStatusPending:  true,
	models.ValidationStatusApproved: true,
	models.ValidationStatusRejected: true,
}

type ValidationUseCase struct {
	base
	dispatcher
}

type ValidationInput struct {
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Status      *string    `json:"status"`
	RequestedBy *string    `json:"requested_by"`
	DecidedBy   *string    `json:"decided_by"`
	DecidedAt   *time.Time `json:"decided_at"`
}

func (uc *ValidationUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID, status string) ([]models.Validation, error) {
	scopes := []database.Scope{
		database.WhereOptional("project_id", projectID),
		database.Preload("Project"),
		database.OrderBy("created_at DESC"),
	}
	if status != "" {
		scopes = append(scopes, database.WhereEq("status", status))
	}

	validations, err := uc.db.ValidationRepo().List(ctx, a.AccountID, scopes...)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "validations", err)
	}
	return validations, nil
}

func (uc *ValidationUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.Validation, error) {
	validation, err := uc.db.ValidationRepo().Get(ctx, a.AccountID, id, database.Preload("Project"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "validation", err)
	}
	return validation, nil
}

// Create files a validation request and notifies the account.
func (uc *ValidationUseCase) Create(ctx context.Context, a Actor, in ValidationInput) (*models.Validation, error) {
	validation := models.Validation{Status: models.ValidationStatusPending}

	var pending pendingNotice
	err := uc.db.Transaction(ctx, func(tx database.Database) error {
		if err := uc.apply(ctx, tx, a, &validation, in); err != nil {
			return err
		}
		if err := tx.ValidationRepo().Create(ctx, a.AccountID, &validation); err != nil {
			return errs.NewDatabaseError("create", "validation", err)
		}

		var err error
		pending, err = uc.persist(ctx, tx, a.AccountID, validationNotice(validation))
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.deliver(ctx, pending)
	return &validation, nil
}

// Update stamps decided_at when the request is approved or rejected without one.
func (uc *ValidationUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in ValidationInput) (*models.Validation, error) {
	validation, err := uc.db.ValidationRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "validation", err)
	}
	in.ProjectID = validation.ProjectID
	if err := uc.apply(ctx, uc.db, a, validation, in); err != nil {
		return nil, err
	}
	if err := uc.db.ValidationRepo().Update(ctx, a.AccountID, validation); err != nil {
		return nil, errs.NewDatabaseError("update", "validation", err)
	}
	return validation, nil
}

func (uc *ValidationUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.ValidationRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "validation", err)
	}
	return nil
}

func (uc *ValidationUseCase) apply(ctx context.Context, db database.Database, a Actor, v *models.Validation, in ValidationInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	kind, err := required("type", in.Type)
	if err != nil {
		return err
	}
	status := orDefault(in.Status, v.Status)
	if !validationStatuses[status] {
		return errs.NewInvalidFieldError("status", "must be pending, approved or rejected")
	}
	if _, err := requireProject(ctx, db, a, in.ProjectID); err != nil {
		return err
	}

	v.ProjectID = in.ProjectID
	v.Title = title
	v.Type = kind
	v.Status = status
	v.RequestedBy = trimmed(in.RequestedBy)
	v.DecidedBy = trimmed(in.DecidedBy)
	v.DecidedAt = in.DecidedAt
	if status != models.ValidationStatusPending && v.DecidedAt == nil {
		now := uc.now()
		v.DecidedAt = &now
	}
	return nil
}

func validationNotice(v models.Validation) services.Notice {
	return services.Notice{
		Type:        NoticeValidationRequest,
		Subject:     "Validation request pending",
		Lines:       []string{v.Title, "Type: " + v.Type},
		ActionLabel: "Review validations",
		ActionPath:  "/validations",
		Channels:    allChannels,
		Data: map[string]any{
			"id":         v.ID,
			"title":      v.Title,
			"type":       v.Type,
			"project_id": v.ProjectID,
		},
	}
}
