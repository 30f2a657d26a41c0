// Package executor runs the per-turn pipeline: classify the utterance,
// then either search (expand → orchestrate → rerank) or chat (resolve
// reference), compose the reply, and commit the turn to the session's
// conversation state.
package executor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/rag/convo"
	"ai-filesearch-be/pkg/rag/expand"
	"ai-filesearch-be/pkg/rag/intent"
	"ai-filesearch-be/pkg/rag/rerank"
	"ai-filesearch-be/pkg/rag/response"
	ragsearch "ai-filesearch-be/pkg/rag/search"
	vectorsearch "ai-filesearch-be/pkg/search"
	"ai-filesearch-be/pkg/store"
	"ai-filesearch-be/pkg/utils"
)

// Result contains the outcome of one conversational turn. Committed
// reports whether the turn reached the conversation state; unavailable
// or abandoned turns leave the context untouched.
type Result struct {
	Reply     string
	Files     []store.Candidate
	Reasoning string
	Intent    string
	Committed bool
}

// Config carries the pipeline tunables. Zero fields fall back to the
// owning stage's defaults, so Config{} is a valid all-defaults value.
type Config struct {
	// Phrasings is how many alternative phrasings the search pass runs;
	// 1 searches the expanded query directly.
	Phrasings int

	// TopK is how many hits each phrasing search requests.
	TopK int

	// CandidateLimit caps the fused candidate list handed to the reranker.
	CandidateLimit int

	// MaxResults caps the reranker's final selection.
	MaxResults int
}

// DefaultConfig returns default pipeline configuration.
func DefaultConfig() Config {
	search := ragsearch.DefaultConfig()
	return Config{
		Phrasings:      search.Phrasings,
		TopK:           search.TopK,
		CandidateLimit: search.CandidateLimit,
		MaxResults:     rerank.DefaultConfig().MaxResults,
	}
}

// Pipeline orchestrates one turn end to end. Turns for the same session
// are serialized through the conversation store's per-session lock; turns
// for different sessions run in parallel.
type Pipeline struct {
	classifier   *intent.Classifier
	expander     *expand.Expander
	orchestrator *ragsearch.Orchestrator
	reranker     *rerank.Reranker
	composer     *response.Composer
	convoStore   *convo.Store
	logger       *log.Logger
}

// NewPipeline creates a turn pipeline wired to the given model provider,
// vector search backend, synonym table and conversation store.
func NewPipeline(
	llmProvider llm.LLMProvider,
	searcher vectorsearch.Searcher,
	table expand.Table,
	convoStore *convo.Store,
	logger *log.Logger,
	cfg Config,
) *Pipeline {
	searchCfg := ragsearch.DefaultConfig()
	if cfg.Phrasings > 0 {
		searchCfg.Phrasings = cfg.Phrasings
	}
	if cfg.TopK > 0 {
		searchCfg.TopK = cfg.TopK
	}
	if cfg.CandidateLimit > 0 {
		searchCfg.CandidateLimit = cfg.CandidateLimit
	}

	rerankCfg := rerank.DefaultConfig()
	if cfg.MaxResults > 0 {
		rerankCfg.MaxResults = cfg.MaxResults
	}

	return &Pipeline{
		classifier:   intent.NewClassifier(llmProvider, logger, intent.DefaultConfig()),
		expander:     expand.NewExpander(llmProvider, table, logger, expand.DefaultConfig()),
		orchestrator: ragsearch.NewOrchestrator(llmProvider, searcher, logger, searchCfg),
		reranker:     rerank.NewReranker(llmProvider, logger, rerankCfg),
		composer:     response.NewComposer(logger, response.DefaultConfig()),
		convoStore:   convoStore,
		logger:       logger,
	}
}

// Execute processes one utterance for a session and returns the reply,
// the files it refers to, and the step-by-step reasoning trace. Errors
// never escape a turn: every failure path resolves to a user-facing
// reply. maxResults caps the selected files when positive.
func (p *Pipeline) Execute(ctx context.Context, sessionID, text string, maxResults int) Result {
	utt := store.NewUtterance(sessionID, text)

	unlock := p.convoStore.Lock(utt.SessionID)
	defer unlock()

	var tr trace
	state := p.convoStore.Snapshot(utt.SessionID)
	tr.addf("received %q (session=%s, prior_turns=%d)", utils.Truncate(utt.Text, 60), utt.SessionID, len(state.Turns))

	p.logger.Printf("[PIPELINE] session %s: %q", utt.SessionID, utils.Truncate(utt.Text, 60))

	cls := p.classifier.Classify(ctx, utt.Text, state)
	tr.addf("classified %s via %s (rule=%s)", cls.Intent, cls.Via, cls.Rule)

	if cls.IsSearch() {
		return p.executeSearch(ctx, utt, maxResults, cls, &tr)
	}
	return p.executeChat(ctx, utt, cls, &tr)
}

func (p *Pipeline) executeSearch(ctx context.Context, utt store.Utterance, maxResults int, cls intent.Classification, tr *trace) Result {
	expanded := p.expander.Expand(ctx, utt.Text)
	added := len(strings.Fields(expanded)) - len(strings.Fields(utt.Text))
	tr.addf("expanded query (+%d terms)", added)

	candidates, err := p.orchestrator.Search(ctx, utt.Text, expanded)
	if err != nil {
		p.logger.Printf("[PIPELINE] session %s: vector search unavailable: %v", utt.SessionID, err)
		tr.addf("vector search unavailable: %v", err)
		tr.addf("context unmodified")
		return Result{
			Reply:     p.composer.ComposeUnavailable().Text,
			Reasoning: tr.String(),
			Intent:    cls.Intent,
		}
	}
	tr.addf("aggregated %d candidate(s) across phrasings", len(candidates))

	outcome := p.reranker.Rerank(ctx, utt.Text, candidates)
	if maxResults > 0 && len(outcome.Selected) > maxResults {
		outcome.Selected = outcome.Selected[:maxResults]
	}
	tr.addf("selected %d file(s) (reasoned=%v)", len(outcome.Selected), outcome.Reasoned)

	reply := p.composer.ComposeSearch(candidates, outcome)

	if ctx.Err() != nil {
		tr.addf("turn abandoned before commit: %v", ctx.Err())
		return Result{Reply: reply.Text, Files: reply.Files, Reasoning: tr.String(), Intent: cls.Intent}
	}

	p.convoStore.CommitTurn(utt.SessionID,
		userTurn(utt),
		newTurn(store.RoleAssistant, reply.Text),
		reply.Files, true)
	tr.addf("committed turn (results replaced, %d files)", len(reply.Files))

	return Result{Reply: reply.Text, Files: reply.Files, Reasoning: tr.String(), Intent: cls.Intent, Committed: true}
}

func (p *Pipeline) executeChat(ctx context.Context, utt store.Utterance, cls intent.Classification, tr *trace) Result {
	var referenced store.Candidate
	var resolved bool
	if cls.SubKind == intent.SubKindAnalysis {
		referenced, resolved = p.convoStore.Resolve(utt.SessionID, utt.Text)
		if resolved {
			tr.addf("resolved reference to %s", referenced.Name())
		} else {
			tr.addf("reference did not resolve")
		}
	}

	reply := p.composer.ComposeChat(cls, referenced, resolved)
	tr.addf("composed chat reply (rule=%s)", cls.Rule)

	if ctx.Err() != nil {
		tr.addf("turn abandoned before commit: %v", ctx.Err())
		return Result{Reply: reply.Text, Files: reply.Files, Reasoning: tr.String(), Intent: cls.Intent}
	}

	p.convoStore.CommitTurn(utt.SessionID,
		userTurn(utt),
		newTurn(store.RoleAssistant, reply.Text),
		nil, false)
	tr.addf("committed turn (results kept)")

	return Result{Reply: reply.Text, Files: reply.Files, Reasoning: tr.String(), Intent: cls.Intent, Committed: true}
}

// ClearContext drops a session's conversation state.
func (p *Pipeline) ClearContext(sessionID string) {
	unlock := p.convoStore.Lock(sessionID)
	defer unlock()
	p.convoStore.Clear(sessionID)
}

// History returns the session's recent turns, oldest first.
func (p *Pipeline) History(sessionID string) []store.Turn {
	return p.convoStore.Snapshot(sessionID).Turns
}

func newTurn(role, text string) store.Turn {
	return store.Turn{Role: role, Text: text, CreatedAt: time.Now()}
}

// userTurn keeps the receive timestamp on the recorded user turn.
func userTurn(utt store.Utterance) store.Turn {
	return store.Turn{Role: store.RoleUser, Text: utt.Text, CreatedAt: utt.ReceivedAt}
}

// trace accumulates the reasoning lines returned with each reply.
type trace struct {
	lines []string
}

func (t *trace) addf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *trace) String() string {
	return strings.Join(t.lines, "\n")
}
