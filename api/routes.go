package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.health())
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", handlers.authHandler.login())
}

// setupAccountRoutes sets up all routes that need a signed-in user acting for an account
func setupAccountRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.withAccount)

		// Billing stays reachable when the subscription has lapsed
		r.Get("/billing", handlers.insightHandler.getBilling())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireSubscription)

			r.Get("/dashboard", handlers.insightHandler.getDashboard())
			r.Get("/portfolio", handlers.insightHandler.getPortfolio())
			r.Get("/reports", handlers.insightHandler.getReport())
			r.Get("/reports/export", handlers.insightHandler.exportReport())
			r.Get("/planning", handlers.scheduleHandler.getPlanning())

			// Project Handler endpoints
			r.Get("/projects", handlers.projectHandler.getProjects())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
			r.Post("/projects/{projectID}/contractors", handlers.projectHandler.assignContractor())
			r.Delete("/projects/{projectID}/contractors/{contractorID}", handlers.projectHandler.removeContractor())

			r.Get("/contractors", handlers.contractorHandler.getContractors())
			r.Post("/contractors", handlers.contractorHandler.createContractor())
			r.Get("/contractors/{contractorID}", handlers.contractorHandler.getContractor())
			r.Put("/contractors/{contractorID}", handlers.contractorHandler.updateContractor())
			r.Delete("/contractors/{contractorID}", handlers.contractorHandler.deleteContractor())

			r.Get("/documents", handlers.documentHandler.getDocuments())
			r.Post("/documents", handlers.documentHandler.createDocument())
			r.Get("/documents/{documentID}", handlers.documentHandler.getDocument())
			r.Put("/documents/{documentID}", handlers.documentHandler.updateDocument())
			r.Delete("/documents/{documentID}", handlers.documentHandler.deleteDocument())

			r.Get("/budgets", handlers.budgetHandler.getBudgets())
			r.Post("/budgets", handlers.budgetHandler.createBudget())
			r.Get("/budgets/{budgetID}", handlers.budgetHandler.getBudget())
			r.Put("/budgets/{budgetID}", handlers.budgetHandler.updateBudget())
			r.Delete("/budgets/{budgetID}", handlers.budgetHandler.deleteBudget())

			// Schedule endpoints
			r.Get("/phases", handlers.scheduleHandler.getPhases())
			r.Post("/phases", handlers.scheduleHandler.createPhase())
			r.Get("/phases/{phaseID}", handlers.scheduleHandler.getPhase())
			r.Put("/phases/{phaseID}", handlers.scheduleHandler.updatePhase())
			r.Delete("/phases/{phaseID}", handlers.scheduleHandler.deletePhase())

			r.Get("/tasks", handlers.scheduleHandler.getTasks())
			r.Post("/tasks", handlers.scheduleHandler.createTask())
			r.Get("/tasks/{taskID}", handlers.scheduleHandler.getTask())
			r.Put("/tasks/{taskID}", handlers.scheduleHandler.updateTask())
			r.Delete("/tasks/{taskID}", handlers.scheduleHandler.deleteTask())

			r.Get("/task-dependencies", handlers.scheduleHandler.getDependencies())
			r.Post("/task-dependencies", handlers.scheduleHandler.createDependency())
			r.Delete("/task-dependencies/{dependencyID}", handlers.scheduleHandler.deleteDependency())

			r.Get("/milestones", handlers.scheduleHandler.getMilestones())
			r.Post("/milestones", handlers.scheduleHandler.createMilestone())
			r.Get("/milestones/{milestoneID}", handlers.scheduleHandler.getMilestone())
			r.Put("/milestones/{milestoneID}", handlers.scheduleHandler.updateMilestone())
			r.Delete("/milestones/{milestoneID}", handlers.scheduleHandler.deleteMilestone())

			// Site journal endpoints
			r.Get("/incidents", handlers.siteRecordHandler.getIncidents())
			r.Post("/incidents", handlers.siteRecordHandler.createIncident())
			r.Get("/incidents/{incidentID}", handlers.siteRecordHandler.getIncident())
			r.Put("/incidents/{incidentID}", handlers.siteRecordHandler.updateIncident())
			r.Delete("/incidents/{incidentID}", handlers.siteRecordHandler.deleteIncident())

			r.Get("/validations", handlers.siteRecordHandler.getValidations())
			r.Post("/validations", handlers.siteRecordHandler.createValidation())
			r.Get("/validations/{validationID}", handlers.siteRecordHandler.getValidation())
			r.Put("/validations/{validationID}", handlers.siteRecordHandler.updateValidation())
			r.Delete("/validations/{validationID}", handlers.siteRecordHandler.deleteValidation())

			r.Get("/decisions", handlers.siteRecordHandler.getDecisions())
			r.Post("/decisions", handlers.siteRecordHandler.createDecision())
			r.Get("/decisions/{decisionID}", handlers.siteRecordHandler.getDecision())
			r.Put("/decisions/{decisionID}", handlers.siteRecordHandler.updateDecision())
			r.Delete("/decisions/{decisionID}", handlers.siteRecordHandler.deleteDecision())

			r.Get("/photos", handlers.siteRecordHandler.getPhotos())
			r.Post("/photos", handlers.siteRecordHandler.createPhoto())
			r.Get("/photos/{photoID}", handlers.siteRecordHandler.getPhoto())
			r.Put("/photos/{photoID}", handlers.siteRecordHandler.updatePhoto())
			r.Delete("/photos/{photoID}", handlers.siteRecordHandler.deletePhoto())

			// Collaboration endpoints
			r.Get("/comments", handlers.collaborationHandler.getComments())
			r.Post("/comments", handlers.collaborationHandler.createComment())
			r.Get("/project-messages", handlers.collaborationHandler.getMessages())
			r.Post("/project-messages", handlers.collaborationHandler.createMessage())
			r.Get("/notifications", handlers.collaborationHandler.getNotifications())
			r.Patch("/notifications", handlers.collaborationHandler.markAllNotificationsRead())
			r.Patch("/notifications/{notificationID}", handlers.collaborationHandler.markNotificationRead())

			r.Get("/team", handlers.teamHandler.getMembers())
			r.Post("/team", handlers.teamHandler.inviteMember())
			r.Put("/team/{userID}/role", handlers.teamHandler.updateRole())
		})
	})
}
