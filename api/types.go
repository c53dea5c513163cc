package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	movieHandler    movieHandler
	directorHandler directorHandler
	genreHandler    genreHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Missing required field: title"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}
