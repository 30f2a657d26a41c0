package store

import (
	"path/filepath"
	"strings"
	"time"
)

// Roles recorded on conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Appearance records one sighting of a file during a multi-phrasing pass.
type Appearance struct {
	Phrasing int     `json:"phrasing"` // 0-based phrasing index
	Rank     int     `json:"rank"`     // 1-based rank within that search
	Score    float64 `json:"score"`    // raw similarity from the searcher
}

// Candidate is a file surfaced by vector search for the current turn,
// deduplicated by path, carrying the aggregated ranking signals.
type Candidate struct {
	Path          string       `json:"path"`
	Preview       string       `json:"preview"`
	Appearances   []Appearance `json:"appearances,omitempty"`
	Frequency     float64      `json:"frequency"`
	PositionScore float64      `json:"position_score"`
	Similarity    float64      `json:"similarity"`
	CombinedScore float64      `json:"combined_score"`
	FirstPhrasing int          `json:"first_phrasing"`
}

// Name returns the display name of the candidate (base of the path).
func (c Candidate) Name() string {
	return filepath.Base(c.Path)
}

// Ext returns the lowercased file extension including the dot, or "".
func (c Candidate) Ext() string {
	return strings.ToLower(filepath.Ext(c.Path))
}

// Utterance is one raw user input bound to its session. Immutable once
// received; pipeline stages read it, none rewrite it.
type Utterance struct {
	Text       string    `json:"text"`
	SessionID  string    `json:"session_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewUtterance stamps the received time on a raw input.
func NewUtterance(sessionID, text string) Utterance {
	return Utterance{Text: text, SessionID: sessionID, ReceivedAt: time.Now()}
}

// Turn is a single conversational exchange entry.
// Owned exclusively by its ConversationState.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationState is the in-memory context for one session: a bounded
// window of recent turns plus the most recent search result set.
// Exactly one writer at a time per session.
type ConversationState struct {
	Turns          []Turn      `json:"turns"`
	LastResults    []Candidate `json:"last_results"`
	LastReferenced int         `json:"last_referenced"` // index into LastResults, -1 when none
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewConversationState returns an empty state with no referenced result.
func NewConversationState() ConversationState {
	return ConversationState{LastReferenced: -1}
}

// Clone returns a deep copy safe to read outside the store's lock.
func (s ConversationState) Clone() ConversationState {
	out := s
	if s.Turns != nil {
		out.Turns = make([]Turn, len(s.Turns))
		copy(out.Turns, s.Turns)
	}
	if s.LastResults != nil {
		out.LastResults = make([]Candidate, len(s.LastResults))
		copy(out.LastResults, s.LastResults)
		for i, c := range s.LastResults {
			if c.Appearances != nil {
				apps := make([]Appearance, len(c.Appearances))
				copy(apps, c.Appearances)
				out.LastResults[i].Appearances = apps
			}
		}
	}
	return out
}
