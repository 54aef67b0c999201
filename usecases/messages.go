package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

type MessageUseCase struct {
	base
}

type MessageInput struct {
	ProjectID uuid.UUID `json:"project_id"`
	Body      string    `json:"body"`
}

func (uc *MessageUseCase) Create(ctx context.Context, a Actor, in MessageInput) (*models.ProjectMessage, error) {
	body, err := required("body", in.Body)
	if err != nil {
		return nil, err
	}
	if in.ProjectID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("project_id")
	}

	message := models.ProjectMessage{ProjectID: in.ProjectID, AuthorID: a.UserID, Body: body}
	err = uc.db.Transaction(ctx, func(tx database.Database) error {
		if _, err := requireProject(ctx, tx, a, in.ProjectID); err != nil {
			return err
		}
		if err := tx.MessageRepo().Create(ctx, a.AccountID, &message); err != nil {
			return errs.NewDatabaseError("create", "message", err)
		}
		return recordActivity(ctx, tx, a, in.ProjectID, models.ActivityMessagePosted, map[string]any{
			"message_id": message.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (uc *MessageUseCase) List(ctx context.Context, a Actor, projectID uuid.UUID) ([]models.ProjectMessage, error) {
	if _, err := requireProject(ctx, uc.db, a, projectID); err != nil {
		return nil, err
	}
	messages, err := uc.db.MessageRepo().List(ctx, a.AccountID,
		database.WhereEq("project_id", projectID),
		database.Preload("Author"),
		database.OrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "messages", err)
	}
	return messages, nil
}
