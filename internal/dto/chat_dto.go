package dto

import "time"

type SendChatRequest struct {
	SessionId  string `json:"session_id" validate:"required,min=1,max=128"`
	Message    string `json:"message" validate:"required,min=1,max=2000"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
}

// FileResultDTO represents one file surfaced for a turn
type FileResultDTO struct {
	Path     string  `json:"path"`
	FileName string  `json:"file_name"`
	Preview  string  `json:"preview,omitempty"`
	Score    float64 `json:"score"`
}

type SendChatResponse struct {
	SessionId string          `json:"session_id"`
	Reply     string          `json:"reply"`
	Intent    string          `json:"intent"` // "FILE_SEARCH" | "GENERAL_CHAT"
	Files     []FileResultDTO `json:"files,omitempty"`
	Reasoning string          `json:"reasoning,omitempty"` // step-by-step trace for debugging UIs
}

type ChatTurnDTO struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type GetChatHistoryResponse struct {
	SessionId string        `json:"session_id"`
	Turns     []ChatTurnDTO `json:"turns"`
}

// PublishTurnCompletedMessage is the in-process bus payload emitted after a
// committed turn. Carries turn metadata only; conversation content stays in
// the context store.
type PublishTurnCompletedMessage struct {
	SessionId  string    `json:"session_id"`
	Intent     string    `json:"intent"`
	FileCount  int       `json:"file_count"`
	DurationMs int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}
