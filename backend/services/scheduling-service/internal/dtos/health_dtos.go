package dtos

type HealthCheckResponse struct {
	Status string `json:"status"`
	Ledger string `json:"ledger"`
}
