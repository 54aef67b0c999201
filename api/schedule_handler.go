package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// scheduleHandler serves phases, tasks, task dependencies, milestones and
// the planning view.
type scheduleHandler struct {
	responder    Responder
	logger       zerolog.Logger
	phases       *usecases.PhaseUseCase
	tasks        *usecases.TaskUseCase
	dependencies *usecases.DependencyUseCase
	milestones   *usecases.MilestoneUseCase
	planning     *usecases.PlanningUseCase
}

func newScheduleHandler(uc *usecases.UseCases) scheduleHandler {
	logger := log.With().Str("handlerName", "scheduleHandler").Logger()

	return scheduleHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		phases:       uc.Phases,
		tasks:        uc.Tasks,
		dependencies: uc.Dependencies,
		milestones:   uc.Milestones,
		planning:     uc.Planning,
	}
}

func (h scheduleHandler) getPhases() http.HandlerFunc {
	return serveListByProject(h.responder, h.phases.List)
}

func (h scheduleHandler) getPhase() http.HandlerFunc {
	return serveGet(h.responder, "phaseID", h.phases.Get)
}

func (h scheduleHandler) createPhase() http.HandlerFunc {
	return serveCreate(h.responder, "phase", h.phases.Create)
}

func (h scheduleHandler) updatePhase() http.HandlerFunc {
	return serveUpdate(h.responder, "phaseID", "phase", h.phases.Update)
}

func (h scheduleHandler) deletePhase() http.HandlerFunc {
	return serveDelete(h.responder, "phaseID", h.phases.Delete)
}

// getTasks lists tasks with their phase
// @Summary List tasks
// @Tags Planning
// @Produce json
// @Param project_id query string false "Project ID" format(uuid)
// @Success 200 {array} models.ProjectTask
// @Router /tasks [get]
func (h scheduleHandler) getTasks() http.HandlerFunc {
	return serveListByProject(h.responder, h.tasks.List)
}

func (h scheduleHandler) getTask() http.HandlerFunc {
	return serveGet(h.responder, "taskID", h.tasks.Get)
}

// createTask creates a task. Start, end and duration are completed from each
// other when one of them is missing.
// @Summary Create task
// @Tags Planning
// @Accept json
// @Produce json
// @Param task body usecases.TaskInput true "Task data"
// @Success 201 {object} models.ProjectTask
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /tasks [post]
func (h scheduleHandler) createTask() http.HandlerFunc {
	return serveCreate(h.responder, "task", h.tasks.Create)
}

func (h scheduleHandler) updateTask() http.HandlerFunc {
	return serveUpdate(h.responder, "taskID", "task", h.tasks.Update)
}

func (h scheduleHandler) deleteTask() http.HandlerFunc {
	return serveDelete(h.responder, "taskID", h.tasks.Delete)
}

func (h scheduleHandler) getDependencies() http.HandlerFunc {
	return serveListByProject(h.responder, h.dependencies.List)
}

func (h scheduleHandler) createDependency() http.HandlerFunc {
	return serveCreate(h.responder, "task dependency", h.dependencies.Create)
}

func (h scheduleHandler) deleteDependency() http.HandlerFunc {
	return serveDelete(h.responder, "dependencyID", h.dependencies.Delete)
}

func (h scheduleHandler) getMilestones() http.HandlerFunc {
	return serveListByProject(h.responder, h.milestones.List)
}

func (h scheduleHandler) getMilestone() http.HandlerFunc {
	return serveGet(h.responder, "milestoneID", h.milestones.Get)
}

func (h scheduleHandler) createMilestone() http.HandlerFunc {
	return serveCreate(h.responder, "milestone", h.milestones.Create)
}

func (h scheduleHandler) updateMilestone() http.HandlerFunc {
	return serveUpdate(h.responder, "milestoneID", "milestone", h.milestones.Update)
}

func (h scheduleHandler) deleteMilestone() http.HandlerFunc {
	return serveDelete(h.responder, "milestoneID", h.milestones.Delete)
}

// getPlanning returns everything a Gantt view needs in one call
// @Summary Planning view
// @Tags Planning
// @Produce json
// @Param project_id query string false "Project ID" format(uuid)
// @Success 200 {object} usecases.PlanningView
// @Router /planning [get]
func (h scheduleHandler) getPlanning() http.HandlerFunc {
	return serveListByProject(h.responder, h.planning.View)
}
