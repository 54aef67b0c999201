package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"gorm.io/gorm"
)

var ErrTaskOfOtherProject = errors.New("task does not belong to this project")

type PhotoUseCase struct {
	base
	blobs BlobStore
}

type PhotoInput struct {
	ProjectID     uuid.UUID  `json:"project_id"`
	ProjectTaskID *uuid.UUID `json:"project_task_id"`
	Caption       *string    `json:"caption"`
	TakenAt       *time.Time `json:"taken_at"`
}

func (uc *PhotoUseCase) List(ctx context.Context, a Actor, projectID, taskID *uuid.UUID) ([]models.Photo, error) {
	photos, err := uc.db.PhotoRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.WhereOptional("project_task_id", taskID),
		database.Preload("Task"),
		database.OrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "photos", err)
	}
	return photos, nil
}

func (uc *PhotoUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.Photo, error) {
	photo, err := uc.db.PhotoRepo().Get(ctx, a.AccountID, id, database.Preload("Task"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "photo", err)
	}
	return photo, nil
}

// Create requires the image itself. It is uploaded before the row is written.
func (uc *PhotoUseCase) Create(ctx context.Context, a Actor, in PhotoInput, file *Upload) (*models.Photo, error) {
	if file == nil {
		return nil, errs.NewMissingRequiredFieldError("photo")
	}
	var photo models.Photo
	if err := uc.apply(ctx, a, &photo, in); err != nil {
		return nil, err
	}

	key, err := storeUpload(ctx, uc.blobs, a, "photos", *file)
	if err != nil {
		return nil, err
	}
	photo.MediaKey = key

	if err := uc.db.PhotoRepo().Create(ctx, a.AccountID, &photo); err != nil {
		uc.discard(ctx, key)
		return nil, errs.NewDatabaseError("create", "photo", err)
	}
	return &photo, nil
}

// Update changes the metadata and, when given, swaps the image.
func (uc *PhotoUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in PhotoInput, file *Upload) (*models.Photo, error) {
	photo, err := uc.db.PhotoRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "photo", err)
	}
	in.ProjectID = photo.ProjectID
	if err := uc.apply(ctx, a, photo, in); err != nil {
		return nil, err
	}

	previous := photo.MediaKey
	if file != nil {
		key, err := storeUpload(ctx, uc.blobs, a, "photos", *file)
		if err != nil {
			return nil, err
		}
		photo.MediaKey = key
	}

	if err := uc.db.PhotoRepo().Update(ctx, a.AccountID, photo); err != nil {
		if file != nil {
			uc.discard(ctx, photo.MediaKey)
		}
		return nil, errs.NewDatabaseError("update", "photo", err)
	}
	if file != nil {
		uc.discard(ctx, previous)
	}
	return photo, nil
}

func (uc *PhotoUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	photo, err := uc.db.PhotoRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return errs.NewDatabaseError("find", "photo", err)
	}
	if err := uc.db.PhotoRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "photo", err)
	}
	uc.discard(ctx, photo.MediaKey)
	return nil
}

func (uc *PhotoUseCase) apply(ctx context.Context, a Actor, p *models.Photo, in PhotoInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	if _, err := requireProject(ctx, uc.db, a, in.ProjectID); err != nil {
		return err
	}

	if in.ProjectTaskID != nil {
		task, err := uc.db.TaskRepo().Get(ctx, a.AccountID, *in.ProjectTaskID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewFieldRuleError("project_task_id", ErrTaskOfOtherProject)
		}
		if err != nil {
			return errs.NewDatabaseError("find", "task", err)
		}
		if task.ProjectID != in.ProjectID {
			return errs.NewFieldRuleError("project_task_id", ErrTaskOfOtherProject)
		}
	}

	p.ProjectID = in.ProjectID
	p.ProjectTaskID = in.ProjectTaskID
	p.Caption = trimmed(in.Caption)
	p.TakenAt = in.TakenAt
	return nil
}

func (uc *PhotoUseCase) discard(ctx context.Context, key string) {
	if key == "" || uc.blobs == nil {
		return
	}
	if err := uc.blobs.Delete(ctx, key); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("Failed to delete blob")
	}
}
