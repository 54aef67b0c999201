package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler        healthHandler
	authHandler          authHandler
	projectHandler       projectHandler
	contractorHandler    contractorHandler
	documentHandler      documentHandler
	budgetHandler        budgetHandler
	scheduleHandler      scheduleHandler
	siteRecordHandler    siteRecordHandler
	collaborationHandler collaborationHandler
	teamHandler          teamHandler
	insightHandler       insightHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error    string `json:"error" example:"Internal Server Error"`
	Status   string `json:"status" example:"error"`
	Field    string `json:"field,omitempty" example:"end_date"`
	Details  string `json:"details,omitempty" example:"Additional error details"`
	Cause    string `json:"cause,omitempty" example:"Underlying error cause"`
	Redirect string `json:"redirect,omitempty" example:"/billing"`
}
