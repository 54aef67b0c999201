package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/metrics"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type BudgetUseCase struct {
	base
	dispatcher
	usage *UsageUseCase
}

type BudgetItemInput struct {
	ProjectID       uuid.UUID        `json:"project_id"`
	Name            string           `json:"name"`
	Category        *string          `json:"category"`
	EstimatedCost   *decimal.Decimal `json:"estimated_cost"`
	CommittedCost   *decimal.Decimal `json:"committed_cost"`
	ActualCost      *decimal.Decimal `json:"actual_cost"`
	VariationAmount *decimal.Decimal `json:"variation_amount"`
	Notes           *string          `json:"notes"`
}

type BudgetSummary struct {
	Estimated decimal.Decimal `json:"estimated"`
	Committed decimal.Decimal `json:"committed"`
	Actual    decimal.Decimal `json:"actual"`
	Variation decimal.Decimal `json:"variation"`
}

type BudgetList struct {
	Items   []models.ProjectBudgetItem `json:"items"`
	Summary BudgetSummary              `json:"summary"`
}

// OverrunThreshold is estimated * (100 + pct) / 100, in exact decimal arithmetic.
func OverrunThreshold(estimated decimal.Decimal, pct int) decimal.Decimal {
	return estimated.Mul(decimal.NewFromInt(int64(100 + pct))).Div(hundred)
}

// ShouldAlert is the overrun rule. It is false once the item has alerted,
// when the project has alerts off, or when either cost is not positive.
func ShouldAlert(item models.ProjectBudgetItem, project models.Project) bool {
	if item.AlertedAt != nil {
		return false
	}
	if !project.BudgetAlertEnabled {
		return false
	}
	if !item.EstimatedCost.IsPositive() || !item.ActualCost.IsPositive() {
		return false
	}
	return item.ActualCost.GreaterThan(OverrunThreshold(item.EstimatedCost, project.BudgetAlertThreshold))
}

func (uc *BudgetUseCase) List(ctx context.Context, a Actor, filter database.BudgetFilter) (*BudgetList, error) {
	items, err := uc.db.BudgetItemRepo().Search(ctx, a.AccountID, filter)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "budget items", err)
	}

	var summary BudgetSummary
	for _, item := range items {
		summary.Estimated = summary.Estimated.Add(item.EstimatedCost)
		summary.Committed = summary.Committed.Add(item.CommittedCost)
		summary.Actual = summary.Actual.Add(item.ActualCost)
		summary.Variation = summary.Variation.Add(item.VariationAmount)
	}

	uc.usage.TrackQuietly(ctx, a, FeatureBudgets)
	return &BudgetList{Items: items, Summary: summary}, nil
}

func (uc *BudgetUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.ProjectBudgetItem, error) {
	item, err := uc.db.BudgetItemRepo().Get(ctx, a.AccountID, id, database.Preload("Project"))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "budget item", err)
	}
	return item, nil
}

func (uc *BudgetUseCase) Create(ctx context.Context, a Actor, in BudgetItemInput) (*models.ProjectBudgetItem, error) {
	item := models.ProjectBudgetItem{}
	if err := applyBudgetInput(&item, in); err != nil {
		return nil, err
	}
	return uc.save(ctx, a, &item, true)
}

// Update is a full replace of the mutable fields, project included. The
// alert latch is kept.
func (uc *BudgetUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in BudgetItemInput) (*models.ProjectBudgetItem, error) {
	item, err := uc.db.BudgetItemRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "budget item", err)
	}

	if err := applyBudgetInput(item, in); err != nil {
		return nil, err
	}
	return uc.save(ctx, a, item, false)
}

// save writes the cost fields and evaluates the overrun rule in one
// transaction. Notification rows, the activity entry and the latch commit
// together with the costs; mail and broadcast go out afterwards.
func (uc *BudgetUseCase) save(ctx context.Context, a Actor, item *models.ProjectBudgetItem, create bool) (*models.ProjectBudgetItem, error) {
	var pending *pendingNotice

	err := uc.db.Transaction(ctx, func(tx database.Database) error {
		project, err := requireProject(ctx, tx, a, item.ProjectID)
		if err != nil {
			return err
		}

		if create {
			err = tx.BudgetItemRepo().Create(ctx, a.AccountID, item)
		} else {
			err = tx.BudgetItemRepo().Update(ctx, a.AccountID, item)
		}
		if err != nil {
			return errs.NewDatabaseError("save", "budget item", err)
		}

		if !ShouldAlert(*item, *project) {
			return nil
		}

		p, err := uc.persist(ctx, tx, a.AccountID, overrunNotice(*item))
		if err != nil {
			return err
		}

		// Raised by the system, not by the user who saved the costs.
		err = recordActivity(ctx, tx, Actor{AccountID: a.AccountID}, project.ID, models.ActivityBudgetOverrun, map[string]any{
			"budget_item_id": item.ID,
			"estimated_cost": item.EstimatedCost,
			"actual_cost":    item.ActualCost,
		})
		if err != nil {
			return err
		}

		now := uc.now()
		if err := tx.BudgetItemRepo().MarkAlerted(ctx, a.AccountID, item.ID, now); err != nil {
			return errs.NewDatabaseError("latch", "budget item", err)
		}
		item.AlertedAt = &now
		pending = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pending != nil {
		metrics.RecordBudgetAlert()
		uc.logger.Info().
			Str("budgetItemID", item.ID.String()).
			Str("estimated", item.EstimatedCost.StringFixed(2)).
			Str("actual", item.ActualCost.StringFixed(2)).
			Msg("Budget overrun alert raised")
		uc.deliver(ctx, *pending)
	}
	return item, nil
}

func (uc *BudgetUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.BudgetItemRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "budget item", err)
	}
	return nil
}

func overrunNotice(item models.ProjectBudgetItem) services.Notice {
	return services.Notice{
		Type:        NoticeBudgetOverrun,
		Subject:     "Dépassement budgétaire",
		Lines:       []string{item.Name},
		ActionLabel: "Voir le budget",
		ActionPath:  "/budgets",
		Channels:    allChannels,
		Data: map[string]any{
			"id":             item.ID,
			"name":           item.Name,
			"project_id":     item.ProjectID,
			"estimated_cost": item.EstimatedCost,
			"actual_cost":    item.ActualCost,
		},
	}
}

func applyBudgetInput(item *models.ProjectBudgetItem, in BudgetItemInput) error {
	if in.ProjectID == uuid.Nil {
		return errs.NewMissingRequiredFieldError("project_id")
	}
	name, err := required("name", in.Name)
	if err != nil {
		return err
	}
	if err := maxLength("name", name, 255); err != nil {
		return err
	}

	costs := []struct {
		field  string
		value  *decimal.Decimal
		dst    *decimal.Decimal
		signed bool
	}{
		{"estimated_cost", in.EstimatedCost, &item.EstimatedCost, false},
		{"committed_cost", in.CommittedCost, &item.CommittedCost, false},
		{"actual_cost", in.ActualCost, &item.ActualCost, false},
		{"variation_amount", in.VariationAmount, &item.VariationAmount, true},
	}
	for _, c := range costs {
		v := decimal.Zero
		if c.value != nil {
			v = c.value.Round(2)
		}
		if !c.signed && v.IsNegative() {
			return errs.NewValidationError(c.field, c.field+" must not be negative")
		}
		*c.dst = v
	}

	item.ProjectID = in.ProjectID
	item.Name = name
	item.Category = trimmed(in.Category)
	item.Notes = trimmed(in.Notes)
	return nil
}
