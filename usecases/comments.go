package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

var ErrUnknownCommentable = errors.New("comments can only be attached to tasks, milestones, decisions and budget items")

type CommentUseCase struct {
	base
}

type CommentInput struct {
	CommentableType string    `json:"commentable_type"`
	CommentableID   uuid.UUID `json:"commentable_id"`
	Body            string    `json:"body"`
}

// Create attaches a comment and logs it on the project the target belongs to.
func (uc *CommentUseCase) Create(ctx context.Context, a Actor, in CommentInput) (*models.Comment, error) {
	body, err := required("body", in.Body)
	if err != nil {
		return nil, err
	}
	if in.CommentableID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("commentable_id")
	}

	comment := models.Comment{
		CommentableType: in.CommentableType,
		CommentableID:   in.CommentableID,
		AuthorID:        a.UserID,
		Body:            body,
	}

	err = uc.db.Transaction(ctx, func(tx database.Database) error {
		projectID, err := commentableProject(ctx, tx, a, in.CommentableType, in.CommentableID)
		if err != nil {
			return err
		}
		if err := tx.CommentRepo().Create(ctx, a.AccountID, &comment); err != nil {
			return errs.NewDatabaseError("create", "comment", err)
		}
		return recordActivity(ctx, tx, a, projectID, models.ActivityCommentAdded, map[string]any{
			"comment_id":       comment.ID,
			"commentable_type": comment.CommentableType,
			"commentable_id":   comment.CommentableID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (uc *CommentUseCase) List(ctx context.Context, a Actor, commentableType string, commentableID uuid.UUID) ([]models.Comment, error) {
	comments, err := uc.db.CommentRepo().List(ctx, a.AccountID,
		database.WhereEq("commentable_type", commentableType),
		database.WhereEq("commentable_id", commentableID),
		database.Preload("Author"),
		database.OrderBy("created_at"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "comments", err)
	}
	return comments, nil
}

// commentableProject resolves the project owning the comment target.
func commentableProject(ctx context.Context, db database.Database, a Actor, kind string, id uuid.UUID) (uuid.UUID, error) {
	var (
		projectID uuid.UUID
		err       error
	)
	switch kind {
	case models.CommentableTask:
		var t *models.ProjectTask
		if t, err = db.TaskRepo().Get(ctx, a.AccountID, id); err == nil {
			projectID = t.ProjectID
		}
	case models.CommentableMilestone:
		var m *models.ProjectMilestone
		if m, err = db.MilestoneRepo().Get(ctx, a.AccountID, id); err == nil {
			projectID = m.ProjectID
		}
	case models.CommentableDecision:
		var d *models.Decision
		if d, err = db.DecisionRepo().Get(ctx, a.AccountID, id); err == nil {
			projectID = d.ProjectID
		}
	case models.CommentableBudgetItem:
		var b *models.ProjectBudgetItem
		if b, err = db.BudgetItemRepo().Get(ctx, a.AccountID, id); err == nil {
			projectID = b.ProjectID
		}
	default:
		return uuid.Nil, errs.NewFieldRuleError("commentable_type", ErrUnknownCommentable)
	}
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", kind, err)
	}
	return projectID, nil
}
