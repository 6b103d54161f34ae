package dto

// ErrorResponse carries a failure message naming its subject.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
