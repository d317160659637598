package domain

// ValidationResult is the outcome of validating a query before execution
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Message    string   `json:"message,omitempty"`
	Violations []string `json:"violations,omitempty"`
}
