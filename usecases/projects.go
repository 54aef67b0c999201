package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var projectStatuses = map[string]bool{
	models.ProjectStatusPreparation: true,
	models.ProjectStatusInProgress:  true,
	models.ProjectStatusDelayed:     true,
	models.ProjectStatusCompleted:   true,
}

type ProjectUseCase struct {
	base
}

type ProjectInput struct {
	Name                 string           `json:"name"`
	ClientName           *string          `json:"client_name"`
	Address              *string          `json:"address"`
	City                 *string          `json:"city"`
	Status               *string          `json:"status"`
	Budget               *decimal.Decimal `json:"budget"`
	StartDate            *models.Date     `json:"start_date"`
	EndDate              *models.Date     `json:"end_date"`
	Progress             *int             `json:"progress"`
	BudgetAlertEnabled   *bool            `json:"budget_alert_enabled"`
	BudgetAlertThreshold *int             `json:"budget_alert_threshold"`
}

type ProjectPage struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type ContractorAssignment struct {
	ContractorID uuid.UUID `json:"contractor_id"`
	Role         *string   `json:"role"`
}

func (uc *ProjectUseCase) List(ctx context.Context, a Actor, filter database.ProjectFilter) (*ProjectPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	projects, total, err := uc.db.ProjectRepo().Search(ctx, a.AccountID, filter)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return &ProjectPage{Projects: projects, Total: total, Page: filter.Page, PageSize: database.ProjectPageSize}, nil
}

func (uc *ProjectUseCase) Detail(ctx context.Context, a Actor, id uuid.UUID) (*models.Project, error) {
	project, err := uc.db.ProjectRepo().Detail(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

func (uc *ProjectUseCase) Create(ctx context.Context, a Actor, in ProjectInput) (*models.Project, error) {
	project := models.Project{
		Status:               models.ProjectStatusPreparation,
		Budget:               decimal.Zero,
		BudgetAlertEnabled:   true,
		BudgetAlertThreshold: models.DefaultBudgetAlertThreshold,
	}
	if err := applyProjectInput(&project, in); err != nil {
		return nil, err
	}

	if err := uc.db.ProjectRepo().Create(ctx, a.AccountID, &project); err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}
	uc.logger.Info().Str("projectID", project.ID.String()).Msg("Project created")
	return &project, nil
}

// Update keeps the stored status, progress, budget and alert settings for
// every one of them the input leaves out.
func (uc *ProjectUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in ProjectInput) (*models.Project, error) {
	project, err := uc.db.ProjectRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if err := applyProjectInput(project, in); err != nil {
		return nil, err
	}
	if err := uc.db.ProjectRepo().Update(ctx, a.AccountID, project); err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}
	return project, nil
}

func (uc *ProjectUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.ProjectRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	uc.logger.Info().Str("projectID", id.String()).Msg("Project deleted")
	return nil
}

// AssignContractor links a contractor of the same account to the project.
func (uc *ProjectUseCase) AssignContractor(ctx context.Context, a Actor, projectID uuid.UUID, in ContractorAssignment) (*models.ProjectContractor, error) {
	if _, err := requireProject(ctx, uc.db, a, projectID); err != nil {
		return nil, err
	}
	if in.ContractorID == uuid.Nil {
		return nil, errs.NewMissingRequiredFieldError("contractor_id")
	}

	contractor, err := uc.db.ContractorRepo().Get(ctx, a.AccountID, in.ContractorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewForbiddenError("contractor does not belong to this account")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "contractor", err)
	}

	link := models.ProjectContractor{ProjectID: projectID, ContractorID: contractor.ID, Role: trimmed(in.Role)}
	if err := uc.db.ProjectContractorRepo().Create(ctx, a.AccountID, &link); err != nil {
		return nil, errs.NewDatabaseError("assign", "contractor", err)
	}
	link.Contractor = contractor
	return &link, nil
}

func (uc *ProjectUseCase) RemoveContractor(ctx context.Context, a Actor, projectID, contractorID uuid.UUID) error {
	links, err := uc.db.ProjectContractorRepo().List(ctx, a.AccountID,
		database.WhereEq("project_id", projectID),
		database.WhereEq("contractor_id", contractorID),
	)
	if err != nil {
		return errs.NewDatabaseError("find", "project contractor", err)
	}
	if len(links) == 0 {
		return errs.NewNotFound("project contractor")
	}
	if err := uc.db.ProjectContractorRepo().Delete(ctx, a.AccountID, links[0].ID); err != nil {
		return errs.NewDatabaseError("delete", "project contractor", err)
	}
	return nil
}

func applyProjectInput(p *models.Project, in ProjectInput) error {
	name, err := required("name", in.Name)
	if err != nil {
		return err
	}
	if err := maxLength("name", name, 255); err != nil {
		return err
	}
	p.Name = name
	p.ClientName = trimmed(in.ClientName)
	p.Address = trimmed(in.Address)
	p.City = trimmed(in.City)

	if in.Status != nil {
		if !projectStatuses[*in.Status] {
			return errs.NewInvalidFieldError("status", "unknown project status")
		}
		p.Status = *in.Status
	}
	if in.Budget != nil {
		if in.Budget.IsNegative() {
			return errs.NewValidationError("budget", "budget must not be negative")
		}
		p.Budget = in.Budget.Round(2)
	}
	if in.Progress != nil {
		if err := percent("progress", *in.Progress); err != nil {
			return err
		}
		p.Progress = *in.Progress
	}
	if in.BudgetAlertEnabled != nil {
		p.BudgetAlertEnabled = *in.BudgetAlertEnabled
	}
	if in.BudgetAlertThreshold != nil {
		if err := percent("budget_alert_threshold", *in.BudgetAlertThreshold); err != nil {
			return err
		}
		p.BudgetAlertThreshold = *in.BudgetAlertThreshold
	}

	if in.StartDate != nil && in.EndDate != nil && dayOf(*in.EndDate).Before(dayOf(*in.StartDate)) {
		return errs.NewValidationError("end_date", "end_date must be on or after start_date")
	}
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	return nil
}
