package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"shape_error"`
	Message string `json:"message,omitempty" example:"body must be a JSON array of objects"`
}

// IngestResponse represents an accepted notification batch
type IngestResponse struct {
	Status   string `json:"status" example:"accepted"`
	BatchID  string `json:"batch_id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Received int    `json:"received" example:"3"`
	Accepted int    `json:"accepted" example:"2"`
	Skipped  int    `json:"skipped" example:"1"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"failed to ping store: connection refused"`
}
