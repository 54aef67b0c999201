package api

import (
	"time"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/usecases"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, uc *usecases.UseCases, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler:        newHealthHandler(db, startupTime),
		authHandler:          newAuthHandler(uc.Auth),
		projectHandler:       newProjectHandler(uc.Projects),
		contractorHandler:    newContractorHandler(uc.Contractors),
		documentHandler:      newDocumentHandler(uc.Documents),
		budgetHandler:        newBudgetHandler(uc.Budgets),
		scheduleHandler:      newScheduleHandler(uc),
		siteRecordHandler:    newSiteRecordHandler(uc),
		collaborationHandler: newCollaborationHandler(uc),
		teamHandler:          newTeamHandler(uc.Team),
		insightHandler:       newInsightHandler(uc),
	}
}
