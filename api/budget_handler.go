package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type budgetHandler struct {
	responder Responder
	logger    zerolog.Logger
	budgets   *usecases.BudgetUseCase
}

func newBudgetHandler(budgets *usecases.BudgetUseCase) budgetHandler {
	logger := log.With().Str("handlerName", "budgetHandler").Logger()

	return budgetHandler{
		responder: NewResponder(logger),
		logger:    logger,
		budgets:   budgets,
	}
}

// getBudgets lists budget lines with their totals
// @Summary List budget items
// @Tags Budgets
// @Produce json
// @Param project_id query string false "Project ID" format(uuid)
// @Param category query string false "Category"
// @Param search query string false "Name (substring)"
// @Success 200 {object} usecases.BudgetList
// @Router /budgets [get]
func (h budgetHandler) getBudgets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidQuery(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		list, err := h.budgets.List(r.Context(), actorFrom(r.Context()), database.BudgetFilter{
			ProjectID: projectID,
			Category:  q.Get("category"),
			Search:    q.Get("search"),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, list)
	}
}

func (h budgetHandler) getBudget() http.HandlerFunc {
	return serveGet(h.responder, "budgetID", h.budgets.Get)
}

// createBudget adds a budget line. Crossing the project's overrun threshold
// raises a single alert for the line.
// @Summary Create budget item
// @Tags Budgets
// @Accept json
// @Produce json
// @Param item body usecases.BudgetItemInput true "Budget item"
// @Success 201 {object} models.ProjectBudgetItem
// @Router /budgets [post]
func (h budgetHandler) createBudget() http.HandlerFunc {
	return serveCreate(h.responder, "budget item", h.budgets.Create)
}

func (h budgetHandler) updateBudget() http.HandlerFunc {
	return serveUpdate(h.responder, "budgetID", "budget item", h.budgets.Update)
}

func (h budgetHandler) deleteBudget() http.HandlerFunc {
	return serveDelete(h.responder, "budgetID", h.budgets.Delete)
}
