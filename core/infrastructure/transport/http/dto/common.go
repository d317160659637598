package dto

// HealthResponse represents a health check response
type HealthResponse struct {
	Success  bool `json:"success"`
	Sessions int  `json:"sessions"`
}

// ErrorResponse represents an error response outside the query endpoints
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code,omitempty"`
}
