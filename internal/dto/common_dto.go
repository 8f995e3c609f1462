package dto

type ErrorResponse struct {
	Error   bool     `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Today     string `json:"today"`
}
