package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// insightHandler serves the read-only aggregate views: dashboard, portfolio,
// reports and the billing page.
type insightHandler struct {
	responder Responder
	logger    zerolog.Logger
	dashboard *usecases.DashboardUseCase
	portfolio *usecases.PortfolioUseCase
	reports   *usecases.ReportUseCase
	billing   *usecases.BillingUseCase
}

func newInsightHandler(uc *usecases.UseCases) insightHandler {
	logger := log.With().Str("handlerName", "insightHandler").Logger()

	return insightHandler{
		responder: NewResponder(logger),
		logger:    logger,
		dashboard: uc.Dashboard,
		portfolio: uc.Portfolio,
		reports:   uc.Reports,
		billing:   uc.Billing,
	}
}

func (h insightHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := h.dashboard.Summary(r.Context(), actorFrom(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, dashboard)
	}
}

func (h insightHandler) getPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolio, err := h.portfolio.Overview(r.Context(), actorFrom(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// getReport builds the site report
// @Summary Site report
// @Tags Reports
// @Produce json
// @Param project_id query string false "Project ID" format(uuid)
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} usecases.Report
// @Router /reports [get]
func (h insightHandler) getReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.buildReport(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, report)
	}
}

// exportReport returns the same report as a CSV attachment
// @Summary Export site report
// @Tags Reports
// @Produce text/csv
// @Router /reports/export [get]
func (h insightHandler) exportReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.buildReport(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := usecases.WriteCSV(&buf, report); err != nil {
			h.logger.Error().Err(err).Msg("Error writing report CSV")
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", usecases.ReportFilename))
		if _, err := w.Write(buf.Bytes()); err != nil {
			h.logger.Error().Err(err).Msg("Error writing report response")
		}
	}
}

func (h insightHandler) buildReport(r *http.Request) (*usecases.Report, error) {
	projectID, err := uuidQuery(r, "project_id")
	if err != nil {
		return nil, err
	}
	from, err := dateQuery(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := dateQuery(r, "to")
	if err != nil {
		return nil, err
	}
	return h.reports.Build(r.Context(), actorFrom(r.Context()), usecases.ReportFilter{ProjectID: projectID, From: from, To: to})
}

// getBilling is reachable without a live subscription
// @Summary Billing overview
// @Tags Billing
// @Produce json
// @Success 200 {object} usecases.BillingOverview
// @Router /billing [get]
func (h insightHandler) getBilling() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := h.billing.Overview(r.Context(), actorFrom(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, overview)
	}
}
