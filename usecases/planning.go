package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"golang.org/x/sync/errgroup"
)

type PlanningUseCase struct {
	base
	usage *UsageUseCase
}

// PlanningView is everything the planning board draws.
type PlanningView struct {
	Projects     []models.Project               `json:"projects"`
	Phases       []models.ProjectPhase          `json:"phases"`
	Tasks        []models.ProjectTask           `json:"tasks"`
	Dependencies []models.ProjectTaskDependency `json:"dependencies"`
	Milestones   []models.ProjectMilestone      `json:"milestones"`
	Contractors  []models.Contractor            `json:"contractors"`
}

func (uc *PlanningUseCase) View(ctx context.Context, a Actor, projectID *uuid.UUID) (*PlanningView, error) {
	if projectID != nil {
		if _, err := requireProject(ctx, uc.db, a, *projectID); err != nil {
			return nil, err
		}
	}

	var view PlanningView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Projects, err = uc.db.ProjectRepo().List(gctx, a.AccountID, database.OrderBy("name"))
		return wrapFind("projects", err)
	})
	g.Go(func() (err error) {
		view.Phases, err = uc.db.PhaseRepo().List(gctx, a.AccountID,
			database.WhereOptional("project_id", projectID), database.OrderBy("position, created_at"))
		return wrapFind("phases", err)
	})
	g.Go(func() (err error) {
		view.Tasks, err = uc.db.TaskRepo().List(gctx, a.AccountID,
			database.WhereOptional("project_id", projectID), database.OrderBy("start_date, created_at"))
		return wrapFind("tasks", err)
	})
	g.Go(func() (err error) {
		view.Dependencies, err = uc.db.TaskDependencyRepo().List(gctx, a.AccountID,
			database.WhereOptional("project_id", projectID), database.OrderBy("created_at"))
		return wrapFind("task dependencies", err)
	})
	g.Go(func() (err error) {
		view.Milestones, err = uc.db.MilestoneRepo().List(gctx, a.AccountID,
			database.WhereOptional("project_id", projectID), database.OrderBy("due_date, created_at"))
		return wrapFind("milestones", err)
	})
	g.Go(func() (err error) {
		view.Contractors, err = uc.db.ContractorRepo().List(gctx, a.AccountID, database.OrderBy("name"))
		return wrapFind("contractors", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.usage.TrackQuietly(ctx, a, FeaturePlanning)
	return &view, nil
}

func wrapFind(entity string, err error) error {
	if err != nil {
		return errs.NewDatabaseError("find", entity, err)
	}
	return nil
}
