package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
)

const (
	defaultDocumentVersion = "v1"
	defaultDocumentStatus  = "pending"
)

type DocumentUseCase struct {
	base
	blobs BlobStore
}

type DocumentInput struct {
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	Version   *string   `json:"version"`
	Status    *string   `json:"status"`
}

func (uc *DocumentUseCase) List(ctx context.Context, a Actor, projectID *uuid.UUID) ([]models.Document, error) {
	documents, err := uc.db.DocumentRepo().List(ctx, a.AccountID,
		database.WhereOptional("project_id", projectID),
		database.Preload("Project"),
		database.OrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "documents", err)
	}
	return documents, nil
}

func (uc *DocumentUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.Document, error) {
	document, err := uc.db.DocumentRepo().Get(ctx, a.AccountID, id, database.Preload("Project"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "document", err)
	}
	return document, nil
}

// Create stores the document and, when a file comes with it, uploads the file first.
func (uc *DocumentUseCase) Create(ctx context.Context, a Actor, in DocumentInput, file *Upload) (*models.Document, error) {
	document := models.Document{
		Version: orDefault(in.Version, defaultDocumentVersion),
		Status:  orDefault(in.Status, defaultDocumentStatus),
	}
	if err := uc.apply(ctx, a, &document, in); err != nil {
		return nil, err
	}

	if file != nil {
		key, err := storeUpload(ctx, uc.blobs, a, "documents", *file)
		if err != nil {
			return nil, err
		}
		document.MediaKey = &key
	}

	if err := uc.db.DocumentRepo().Create(ctx, a.AccountID, &document); err != nil {
		uc.discard(ctx, document.MediaKey)
		return nil, errs.NewDatabaseError("create", "document", err)
	}
	return &document, nil
}

// Update replaces the metadata. A new file replaces the stored one.
func (uc *DocumentUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in DocumentInput, file *Upload) (*models.Document, error) {
	document, err := uc.db.DocumentRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "document", err)
	}

	in.ProjectID = document.ProjectID
	if err := uc.apply(ctx, a, document, in); err != nil {
		return nil, err
	}
	if in.Version != nil {
		document.Version = orDefault(in.Version, document.Version)
	}
	if in.Status != nil {
		document.Status = orDefault(in.Status, document.Status)
	}

	previous := document.MediaKey
	if file != nil {
		key, err := storeUpload(ctx, uc.blobs, a, "documents", *file)
		if err != nil {
			return nil, err
		}
		document.MediaKey = &key
	}

	if err := uc.db.DocumentRepo().Update(ctx, a.AccountID, document); err != nil {
		if file != nil {
			uc.discard(ctx, document.MediaKey)
		}
		return nil, errs.NewDatabaseError("update", "document", err)
	}
	if file != nil {
		uc.discard(ctx, previous)
	}
	return document, nil
}

func (uc *DocumentUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	document, err := uc.db.DocumentRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return errs.NewDatabaseError("find", "document", err)
	}
	if err := uc.db.DocumentRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "document", err)
	}
	uc.discard(ctx, document.MediaKey)
	return nil
}

func (uc *DocumentUseCase) apply(ctx context.Context, a Actor, d *models.Document, in DocumentInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	title, err := required("title", in.Title)
	if err != nil {
		return err
	}
	if err := maxLength("title", title, 255); err != nil {
		return err
	}
	if _, err := requireProject(ctx, uc.db, a, in.ProjectID); err != nil {
		return err
	}
	d.ProjectID = in.ProjectID
	d.Title = title
	d.Category = trimmed(in.Category)
	return nil
}

// discard removes an orphaned blob. Failures only leave garbage behind.
func (uc *DocumentUseCase) discard(ctx context.Context, key *string) {
	if key == nil || uc.blobs == nil {
		return
	}
	if err := uc.blobs.Delete(ctx, *key); err != nil {
		uc.logger.Warn().Err(err).Str("key", *key).Msg("Failed to delete blob")
	}
}

// storeUpload puts file under the account's folder and returns its key.
func storeUpload(ctx context.Context, blobs BlobStore, a Actor, folder string, file Upload) (string, error) {
	if blobs == nil {
		return "", errs.NewConfigMissingError("S3_BUCKET")
	}
	key := services.BlobKey(a.AccountID, folder, file.Filename)
	if err := blobs.Put(ctx, key, file.Body, file.ContentType); err != nil {
		return "", err
	}
	return key, nil
}
