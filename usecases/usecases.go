package usecases

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Actor is the request-scoped tenant context handed to every operation.
type Actor struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

// Deliverer sends a notice over the out-of-band channels (mail, broadcast).
type Deliverer interface {
	Deliver(ctx context.Context, recipients []services.Recipient, notice services.Notice) error
}

// BlobStore stores uploaded files by key.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Upload is a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

type Options struct {
	Deliverer Deliverer
	Blobs     BlobStore
	Clock     Clock
	JWTSecret string
	TokenTTL  time.Duration
}

// UseCases groups every domain operation.
type UseCases struct {
	Auth           *AuthUseCase
	Projects       *ProjectUseCase
	Contractors    *ContractorUseCase
	Documents      *DocumentUseCase
	Budgets        *BudgetUseCase
	Phases         *PhaseUseCase
	Tasks          *TaskUseCase
	Dependencies   *DependencyUseCase
	Milestones     *MilestoneUseCase
	Incidents      *IncidentUseCase
	Validations    *ValidationUseCase
	Decisions      *DecisionUseCase
	Photos         *PhotoUseCase
	Comments       *CommentUseCase
	Messages       *MessageUseCase
	Notifications  *NotificationUseCase
	Team           *TeamUseCase
	Usage          *UsageUseCase
	Planning       *PlanningUseCase
	Dashboard      *DashboardUseCase
	Portfolio      *PortfolioUseCase
	Reports        *ReportUseCase
	Billing        *BillingUseCase
	AccountContext *AccountContextUseCase
}

func New(db database.Database, opts Options) *UseCases {
	if opts.Clock == nil {
		opts.Clock = utcNow
	}

	b := func(name string) base {
		return base{
			db:     db,
			now:    opts.Clock,
			logger: log.With().Str("useCase", name).Logger(),
		}
	}
	notify := func(name string) dispatcher {
		return dispatcher{deliverer: opts.Deliverer, deliveryLogger: log.With().Str("useCase", name).Logger()}
	}

	usage := &UsageUseCase{base: b("usage")}

	return &UseCases{
		Auth:           newAuthUseCase(b("auth"), opts.JWTSecret, opts.TokenTTL),
		Projects:       &ProjectUseCase{base: b("projects")},
		Contractors:    &ContractorUseCase{base: b("contractors")},
		Documents:      &DocumentUseCase{base: b("documents"), blobs: opts.Blobs},
		Budgets:        &BudgetUseCase{base: b("budgets"), dispatcher: notify("budgets"), usage: usage},
		Phases:         &PhaseUseCase{base: b("phases")},
		Tasks:          &TaskUseCase{base: b("tasks")},
		Dependencies:   &DependencyUseCase{base: b("dependencies")},
		Milestones:     &MilestoneUseCase{base: b("milestones")},
		Incidents:      &IncidentUseCase{base: b("incidents"), dispatcher: notify("incidents")},
		Validations:    &ValidationUseCase{base: b("validations"), dispatcher: notify("validations")},
		Decisions:      &DecisionUseCase{base: b("decisions"), dispatcher: notify("decisions")},
		Photos:         &PhotoUseCase{base: b("photos"), blobs: opts.Blobs},
		Comments:       &CommentUseCase{base: b("comments")},
		Messages:       &MessageUseCase{base: b("messages")},
		Notifications:  &NotificationUseCase{base: b("notifications")},
		Team:           &TeamUseCase{base: b("team"), dispatcher: notify("team")},
		Usage:          usage,
		Planning:       &PlanningUseCase{base: b("planning"), usage: usage},
		Dashboard:      &DashboardUseCase{base: b("dashboard")},
		Portfolio:      &PortfolioUseCase{base: b("portfolio"), usage: usage},
		Reports:        &ReportUseCase{base: b("reports"), usage: usage},
		Billing:        &BillingUseCase{base: b("billing"), usage: usage},
		AccountContext: &AccountContextUseCase{base: b("accountContext")},
	}
}

type base struct {
	db     database.Database
	now    Clock
	logger zerolog.Logger
}

// requireProject loads a project of the actor's account, 404 otherwise.
func requireProject(ctx context.Context, db database.Database, a Actor, id uuid.UUID) (*models.Project, error) {
	project, err := db.ProjectRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

func recordActivity(ctx context.Context, db database.Database, a Actor, projectID uuid.UUID, activityType string, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode activity payload", err)
	}

	activity := models.ProjectActivity{
		ProjectID: projectID,
		Type:      activityType,
		Payload:   datatypes.JSON(raw),
	}
	if a.UserID != uuid.Nil {
		actorID := a.UserID
		activity.ActorID = &actorID
	}

	if err := db.ActivityRepo().Create(ctx, a.AccountID, &activity); err != nil {
		return errs.NewDatabaseError("record", "activity", err)
	}
	return nil
}

// required trims s and fails with a field error when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.NewMissingRequiredFieldError(field)
	}
	return s, nil
}

func maxLength(field, s string, n int) error {
	if len([]rune(s)) > n {
		return errs.NewInvalidFieldError(field, "too long")
	}
	return nil
}

func percent(field string, v int) error {
	if v < 0 || v > 100 {
		return errs.NewValidationError(field, field+" must be between 0 and 100")
	}
	return nil
}

// trimmed returns nil for a missing or blank optional string.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func orDefault(s *string, def string) string {
	if v := trimmed(s); v != nil {
		return *v
	}
	return def
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
