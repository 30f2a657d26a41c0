package dto

type StatusResponse struct {
	Status            string `json:"status"` // "ok" | "degraded"
	IndexedFiles      int64  `json:"indexed_files"`
	ActiveSessions    int    `json:"active_sessions"`
	LLMProvider       string `json:"llm_provider"`
	LLMModel          string `json:"llm_model"`
	EmbeddingProvider string `json:"embedding_provider"`
	Database          string `json:"database"`
	Redis             string `json:"redis,omitempty"`
	Nats              string `json:"nats,omitempty"`
}
