// Package convo keeps the short-lived conversational state of each chat
// session: a bounded window of recent turns plus the last search result
// set, with per-session turn serialization.
package convo

import (
	"log"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ai-filesearch-be/pkg/store"
)

// Config encapsulates context store tunables.
type Config struct {
	// MaxTurns bounds the per-session turn window; oldest turns are
	// evicted first.
	MaxTurns int

	// TTL is how long an idle session's state survives.
	TTL time.Duration

	// Sweep is how often expired sessions are purged.
	Sweep time.Duration
}

// DefaultConfig returns default context store configuration.
func DefaultConfig() Config {
	return Config{
		MaxTurns: 6,
		TTL:      1 * time.Hour,
		Sweep:    10 * time.Minute,
	}
}

// sessionLock is one entry of the keyed mutex, reference-counted so idle
// sessions do not accumulate locks forever.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Store holds per-session conversation state in an expiring in-memory
// cache. States are stored by value and mutated copy-on-write, so readers
// never observe a half-updated state; writers for the same session are
// serialized through Lock.
type Store struct {
	cache  *cache.Cache
	logger *log.Logger
	config Config

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewStore creates a new conversation context store.
func NewStore(logger *log.Logger, config Config) *Store {
	return &Store{
		cache:  cache.New(config.TTL, config.Sweep),
		logger: logger,
		config: config,
		locks:  make(map[string]*sessionLock),
	}
}

// Lock acquires the per-session turn lock and returns its release func.
// Concurrent turns for one session queue here; turns for different
// sessions proceed independently.
func (s *Store) Lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

// Snapshot returns a deep copy of the session's state, safe to read for
// the whole turn without holding any lock.
func (s *Store) Snapshot(sessionID string) store.ConversationState {
	return s.state(sessionID).Clone()
}

// RecordTurn appends one turn to the session's window, evicting the oldest
// beyond the configured bound.
func (s *Store) RecordTurn(sessionID string, turn store.Turn) {
	state := s.state(sessionID).Clone()
	state.Turns = appendBounded(state.Turns, s.config.MaxTurns, turn)
	s.save(sessionID, state)
}

// CommitTurn records a completed exchange in one critical section. With
// replaceResults the last result set is replaced outright (never merged)
// and the referenced index resets; otherwise results are left untouched so
// follow-up references keep working.
func (s *Store) CommitTurn(sessionID string, userTurn, assistantTurn store.Turn, results []store.Candidate, replaceResults bool) {
	state := s.state(sessionID).Clone()
	state.Turns = appendBounded(state.Turns, s.config.MaxTurns, userTurn, assistantTurn)
	if replaceResults {
		state.LastResults = cloneCandidates(results)
		state.LastReferenced = -1
	}
	s.save(sessionID, state)
	s.logger.Printf("[CONVO] session %s: committed turn (%d turns, %d results, replace=%v)",
		sessionID, len(state.Turns), len(state.LastResults), replaceResults)
}

// LastResults returns a copy of the session's last search result set.
func (s *Store) LastResults(sessionID string) []store.Candidate {
	return s.state(sessionID).Clone().LastResults
}

// Resolve maps a reference phrase ("the second one", "it") to a candidate
// from the last result set. A successful resolution becomes the session's
// most-recently-referenced index, so a later "it" stays on the same file.
func (s *Store) Resolve(sessionID, phrase string) (store.Candidate, bool) {
	state := s.state(sessionID)
	idx, ok := ResolveReference(phrase, state)
	if !ok {
		return store.Candidate{}, false
	}

	updated := state.Clone()
	updated.LastReferenced = idx
	s.save(sessionID, updated)
	return updated.LastResults[idx], true
}

// Clear drops the session's state entirely.
func (s *Store) Clear(sessionID string) {
	s.cache.Delete(sessionID)
	s.logger.Printf("[CONVO] session %s: cleared", sessionID)
}

// Sessions reports how many sessions currently hold state, expired
// entries included until the next sweep.
func (s *Store) Sessions() int {
	return s.cache.ItemCount()
}

func (s *Store) state(sessionID string) store.ConversationState {
	if x, found := s.cache.Get(sessionID); found {
		return x.(store.ConversationState)
	}
	return store.NewConversationState()
}

func (s *Store) save(sessionID string, state store.ConversationState) {
	state.UpdatedAt = time.Now()
	s.cache.Set(sessionID, state, cache.DefaultExpiration)
}

// appendBounded appends turns and keeps only the newest max entries.
func appendBounded(turns []store.Turn, max int, added ...store.Turn) []store.Turn {
	turns = append(turns, added...)
	if len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	return turns
}

func cloneCandidates(candidates []store.Candidate) []store.Candidate {
	if candidates == nil {
		return nil
	}
	out := make([]store.Candidate, len(candidates))
	copy(out, candidates)
	for i, c := range candidates {
		if c.Appearances != nil {
			apps := make([]store.Appearance, len(c.Appearances))
			copy(apps, c.Appearances)
			out[i].Appearances = apps
		}
	}
	return out
}
