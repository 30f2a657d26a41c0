package dto

type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
	TopK  int    `json:"top_k,omitempty" validate:"omitempty,min=1,max=100"`
	// Expand runs the query expander before the vector search.
	Expand bool `json:"expand,omitempty"`
}

type SearchResponseItem struct {
	Path       string   `json:"path"`
	FileName   string   `json:"file_name"`
	Preview    string   `json:"preview,omitempty"`
	Score      *float64 `json:"score,omitempty"`       // 0.0-1.0, only for semantic search
	SearchType string   `json:"search_type,omitempty"` // "literal_filter" | "literal" | "semantic"
}
