package dto

// HealthResponse reports service status plus the active feature flags, so
// operators can see at a glance which pipeline stages are live.
type HealthResponse struct {
	Status      string          `json:"status"`
	Dataset     string          `json:"dataset"`
	Backend     string          `json:"vector_backend"`
	TotalChunks int64           `json:"total_chunks"`
	Features    map[string]bool `json:"features"`
}
