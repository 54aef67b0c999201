package usecases

import (
	"context"
	"math"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentProjectsLimit    = 4
	urgentValidationsLimit = 5
	recentDecisionsLimit   = 6
)

type DashboardUseCase struct {
	base
}

type DashboardStats struct {
	ActiveProjects     int             `json:"active_projects"`
	DelayedProjects    int             `json:"delayed_projects"`
	TotalBudget        decimal.Decimal `json:"total_budget"`
	PendingValidations int64           `json:"pending_validations"`
	OpenIncidents      int64           `json:"open_incidents"`
	AverageProgress    int             `json:"average_progress"`
	BudgetConsumed     decimal.Decimal `json:"budget_consumed"`
	BudgetRemaining    decimal.Decimal `json:"budget_remaining"`
}

// Series is a labelled chart series.
type Series struct {
	Labels []string `json:"labels"`
	Series []int    `json:"series"`
}

type Dashboard struct {
	Stats             DashboardStats      `json:"stats"`
	ProgressByProject Series              `json:"progress_by_project"`
	StatusBreakdown   map[string]int      `json:"status_breakdown"`
	RecentProjects    []models.Project    `json:"recent_projects"`
	UrgentValidations []models.Validation `json:"urgent_validations"`
	RecentDecisions   []models.Decision   `json:"recent_decisions"`
}

func isActive(status string) bool {
	switch status {
	case models.ProjectStatusPreparation, models.ProjectStatusInProgress, models.ProjectStatusDelayed:
		return true
	}
	return false
}

// Summary builds the account home page.
func (uc *DashboardUseCase) Summary(ctx context.Context, a Actor) (*Dashboard, error) {
	var (
		projects  []models.Project
		dashboard Dashboard
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = uc.db.ProjectRepo().List(gctx, a.AccountID, database.OrderBy("created_at DESC"))
		return wrapFind("projects", err)
	})
	g.Go(func() (err error) {
		dashboard.Stats.PendingValidations, err = uc.db.ValidationRepo().Count(gctx, a.AccountID,
			database.WhereEq("status", models.ValidationStatusPending))
		return wrapCount("validations", err)
	})
	g.Go(func() (err error) {
		dashboard.Stats.OpenIncidents, err = uc.db.IncidentRepo().Count(gctx, a.AccountID,
			database.WhereEq("status", models.IncidentStatusOpen))
		return wrapCount("incidents", err)
	})
	g.Go(func() (err error) {
		dashboard.UrgentValidations, err = uc.db.ValidationRepo().List(gctx, a.AccountID,
			database.WhereEq("status", models.ValidationStatusPending),
			database.Preload("Project"),
			database.OrderBy("created_at DESC"),
			database.Limit(urgentValidationsLimit))
		return wrapFind("validations", err)
	})
	g.Go(func() (err error) {
		dashboard.RecentDecisions, err = uc.db.DecisionRepo().List(gctx, a.AccountID,
			database.Preload("Project"),
			database.OrderBy("decided_at DESC"),
			database.Limit(recentDecisionsLimit))
		return wrapFind("decisions", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &dashboard.Stats
	stats.TotalBudget = decimal.Zero
	stats.BudgetConsumed = decimal.Zero
	dashboard.StatusBreakdown = map[string]int{}
	dashboard.ProgressByProject = Series{Labels: []string{}, Series: []int{}}

	progressTotal := 0
	for _, p := range projects {
		if isActive(p.Status) {
			stats.ActiveProjects++
		}
		if p.Status == models.ProjectStatusDelayed {
			stats.DelayedProjects++
		}
		stats.TotalBudget = stats.TotalBudget.Add(p.Budget)
		stats.BudgetConsumed = stats.BudgetConsumed.Add(ConsumedBudget(p.Budget, p.Progress))
		progressTotal += p.Progress

		dashboard.StatusBreakdown[p.Status]++
		dashboard.ProgressByProject.Labels = append(dashboard.ProgressByProject.Labels, p.Name)
		dashboard.ProgressByProject.Series = append(dashboard.ProgressByProject.Series, p.Progress)
	}
	if len(projects) > 0 {
		stats.AverageProgress = int(math.Round(float64(progressTotal) / float64(len(projects))))
	}
	stats.BudgetRemaining = decimal.Max(stats.TotalBudget.Sub(stats.BudgetConsumed), decimal.Zero)

	dashboard.RecentProjects = projects[:min(len(projects), recentProjectsLimit)]
	return &dashboard, nil
}

// ConsumedBudget is budget * progress / 100, rounded to the unit.
func ConsumedBudget(budget decimal.Decimal, progress int) decimal.Decimal {
	return budget.Mul(decimal.NewFromInt(int64(progress))).Div(hundred).Round(0)
}

func wrapCount(entity string, err error) error {
	if err != nil {
		return errs.NewDatabaseError("count", entity, err)
	}
	return nil
}
