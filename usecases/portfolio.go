package usecases

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const upcomingMilestoneDays = 14

type PortfolioUseCase struct {
	base
	usage *UsageUseCase
}

type PortfolioProject struct {
	models.Project
	OpenIncidents      int64           `json:"open_incidents"`
	PendingValidations int64           `json:"pending_validations"`
	UpcomingMilestones int64           `json:"upcoming_milestones"`
	Estimated          decimal.Decimal `json:"estimated"`
	Committed          decimal.Decimal `json:"committed"`
	Actual             decimal.Decimal `json:"actual"`
	Variation          decimal.Decimal `json:"variation"`
}

type PortfolioStats struct {
	ProjectCount    int             `json:"project_count"`
	AverageProgress int             `json:"average_progress"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	TotalEstimated  decimal.Decimal `json:"total_estimated"`
	TotalCommitted  decimal.Decimal `json:"total_committed"`
	TotalActual     decimal.Decimal `json:"total_actual"`
	TotalVariation  decimal.Decimal `json:"total_variation"`
	DelayedProjects int             `json:"delayed_projects"`
}

type Portfolio struct {
	Projects []PortfolioProject `json:"projects"`
	Stats    PortfolioStats     `json:"stats"`
}

// Overview lists every project of the account with its risk counts and budget
// totals, most recently updated first.
func (uc *PortfolioUseCase) Overview(ctx context.Context, a Actor) (*Portfolio, error) {
	deadline := startOfDay(uc.now()).AddDate(0, 0, upcomingMilestoneDays)

	var (
		projects    []models.Project
		incidents   map[uuid.UUID]int64
		validations map[uuid.UUID]int64
		milestones  []models.ProjectMilestone
		items       []models.ProjectBudgetItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = uc.db.ProjectRepo().List(gctx, a.AccountID, database.OrderBy("updated_at DESC"))
		return wrapFind("projects", err)
	})
	g.Go(func() (err error) {
		incidents, err = uc.db.IncidentRepo().CountBy(gctx, a.AccountID, "project_id",
			database.WhereEq("status", models.IncidentStatusOpen))
		return wrapCount("incidents", err)
	})
	g.Go(func() (err error) {
		validations, err = uc.db.ValidationRepo().CountBy(gctx, a.AccountID, "project_id",
			database.WhereEq("status", models.ValidationStatusPending))
		return wrapCount("validations", err)
	})
	g.Go(func() (err error) {
		milestones, err = uc.db.MilestoneRepo().List(gctx, a.AccountID, func(db *gorm.DB) *gorm.DB {
			return db.Where("status <> ? AND due_date IS NOT NULL", models.MilestoneStatusDone)
		})
		return wrapFind("milestones", err)
	})
	g.Go(func() (err error) {
		items, err = uc.db.BudgetItemRepo().List(gctx, a.AccountID)
		return wrapFind("budget items", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	upcoming := map[uuid.UUID]int64{}
	for _, m := range milestones {
		if !dayOf(*m.DueDate).After(deadline) {
			upcoming[m.ProjectID]++
		}
	}

	type totals struct{ estimated, committed, actual, variation decimal.Decimal }
	budgets := map[uuid.UUID]*totals{}
	for _, item := range items {
		t, ok := budgets[item.ProjectID]
		if !ok {
			t = &totals{}
			budgets[item.ProjectID] = t
		}
		t.estimated = t.estimated.Add(item.EstimatedCost)
		t.committed = t.committed.Add(item.CommittedCost)
		t.actual = t.actual.Add(item.ActualCost)
		t.variation = t.variation.Add(item.VariationAmount)
	}

	portfolio := Portfolio{
		Projects: make([]PortfolioProject, 0, len(projects)),
		Stats: PortfolioStats{
			ProjectCount:   len(projects),
			TotalBudget:    decimal.Zero,
			TotalEstimated: decimal.Zero,
			TotalCommitted: decimal.Zero,
			TotalActual:    decimal.Zero,
			TotalVariation: decimal.Zero,
		},
	}
	progressTotal := 0
	for _, p := range projects {
		row := PortfolioProject{
			Project:            p,
			OpenIncidents:      incidents[p.ID],
			PendingValidations: validations[p.ID],
			UpcomingMilestones: upcoming[p.ID],
		}
		if t, ok := budgets[p.ID]; ok {
			row.Estimated, row.Committed, row.Actual, row.Variation = t.estimated, t.committed, t.actual, t.variation
		}
		portfolio.Projects = append(portfolio.Projects, row)

		s := &portfolio.Stats
		s.TotalBudget = s.TotalBudget.Add(p.Budget)
		s.TotalEstimated = s.TotalEstimated.Add(row.Estimated)
		s.TotalCommitted = s.TotalCommitted.Add(row.Committed)
		s.TotalActual = s.TotalActual.Add(row.Actual)
		s.TotalVariation = s.TotalVariation.Add(row.Variation)
		if p.Status == models.ProjectStatusDelayed {
			s.DelayedProjects++
		}
		progressTotal += p.Progress
	}
	if len(projects) > 0 {
		portfolio.Stats.AverageProgress = int(math.Round(float64(progressTotal) / float64(len(projects))))
	}

	uc.usage.TrackQuietly(ctx, a, FeaturePortfolio)
	return &portfolio, nil
}
