package domain

// ErrorResponse is the single wire shape for failed requests.
// @Description Standardized error body returned by every failure path.
type ErrorResponse struct {
	Timestamp        string `json:"timestamp" example:"2026-01-02T15:04:05Z"`
	Status           int    `json:"status" example:"404"`
	DeveloperMessage string `json:"developerMessage" example:"A NotFound exception happened"`
}
