// Package rerank lets the model re-judge the fused candidate ranking
// against the user's actual need, then parses its verdict with a strict
// grammar so free-text output never leaks downstream unvalidated.
package rerank

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"ai-filesearch-be/pkg/call"
	"ai-filesearch-be/pkg/llm"
	ragsearch "ai-filesearch-be/pkg/rag/search"
	"ai-filesearch-be/pkg/store"
	"ai-filesearch-be/pkg/utils"
)

// Config encapsulates reranker tunables.
type Config struct {
	// MaxResults caps the final selection size.
	MaxResults int

	// PreviewLimit is how many preview characters each candidate gets in
	// the prompt.
	PreviewLimit int

	// ModelTimeout bounds the rerank model call.
	ModelTimeout time.Duration
}

// DefaultConfig returns default reranker configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults:   5,
		PreviewLimit: 400,
		ModelTimeout: 30 * time.Second,
	}
}

// Decision is the per-candidate verdict surfaced to callers, carrying the
// candidate identity alongside the parsed block.
type Decision struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	Type      string `json:"type,omitempty"`
	Match     bool   `json:"match"`
	Rationale string `json:"rationale,omitempty"`
	Valid     bool   `json:"valid"`
}

// Outcome is the reranker's result for one turn. Selected holds 0-based
// indices into the candidate slice, best first. Reasoned is false when the
// selection came from the score-order fallback rather than the model.
type Outcome struct {
	Decisions []Decision
	Selected  []int
	Summary   string
	Reasoned  bool
}

// Reranker asks the model for a per-candidate verdict and a selection.
// Every failure mode degrades to the aggregated score order; reranking
// never fails outward.
type Reranker struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
	config      Config
}

// NewReranker creates a new reranker.
func NewReranker(llmProvider llm.LLMProvider, logger *log.Logger, config Config) *Reranker {
	return &Reranker{
		llmProvider: llmProvider,
		logger:      logger,
		config:      config,
	}
}

// Rerank judges candidates against the utterance. The outcome always holds
// a usable selection: the model's when its reply parses, otherwise the top
// candidates by combined score.
func (r *Reranker) Rerank(ctx context.Context, utterance string, candidates []store.Candidate) Outcome {
	if len(candidates) == 0 {
		return Outcome{}
	}

	prompt := buildRerankPrompt(utterance, candidates, r.config.PreviewLimit)
	cfg := call.Config{Timeout: r.config.ModelTimeout}
	answer, err := call.Try(ctx, cfg, func(ctx context.Context) (string, error) {
		return r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.2), llm.WithMaxTokens(2000))
	})
	if err != nil {
		r.logger.Printf("[RERANK] model call failed, using score order: %v", err)
		return r.scoreFallback(candidates, nil, "", false)
	}

	verdict := ParseVerdict(llm.CleanOutput(answer), len(candidates), r.config.MaxResults)
	if verdict.Recognized == 0 {
		r.logger.Printf("[RERANK] reply unparseable, using score order")
		return r.scoreFallback(candidates, nil, "", false)
	}

	decisions := buildDecisions(candidates, verdict)
	if len(verdict.Selected) == 0 {
		// The model analyzed the candidates but never committed to a
		// selection; its reasoning is kept, the order is ours.
		r.logger.Printf("[RERANK] no valid selection in reply, using score order")
		return r.scoreFallback(candidates, decisions, verdict.Summary, true)
	}

	r.logger.Printf("[RERANK] model selected %d of %d candidates", len(verdict.Selected), len(candidates))
	return Outcome{
		Decisions: decisions,
		Selected:  verdict.Selected,
		Summary:   verdict.Summary,
		Reasoned:  true,
	}
}

// scoreFallback selects the top MaxResults candidates by combined score.
// Input order is not trusted here: a format-preference reorder upstream may
// have shuffled it.
func (r *Reranker) scoreFallback(candidates []store.Candidate, decisions []Decision, summary string, reasoned bool) Outcome {
	indices := make([]int, len(candidates))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return candidates[indices[a]].CombinedScore > candidates[indices[b]].CombinedScore
	})
	if len(indices) > r.config.MaxResults {
		indices = indices[:r.config.MaxResults]
	}

	if decisions == nil {
		decisions = buildDecisions(candidates, Verdict{Blocks: make([]Block, len(candidates))})
	}
	return Outcome{
		Decisions: decisions,
		Selected:  indices,
		Summary:   summary,
		Reasoned:  reasoned,
	}
}

func buildDecisions(candidates []store.Candidate, verdict Verdict) []Decision {
	decisions := make([]Decision, len(candidates))
	for i, c := range candidates {
		block := verdict.Blocks[i]
		decisions[i] = Decision{
			Index:     i,
			Path:      c.Path,
			Type:      block.Type,
			Match:     block.Match,
			Rationale: block.Rationale,
			Valid:     block.Valid,
		}
	}
	return decisions
}

func buildRerankPrompt(utterance string, candidates []store.Candidate, previewLimit int) string {
	var prompt strings.Builder
	prompt.WriteString("You are an expert file search assistant. Analyze EVERY file and explain your reasoning.\n\n")
	prompt.WriteString("User's request: \"")
	prompt.WriteString(utterance)
	prompt.WriteString("\"\n")

	if formats := ragsearch.DetectFormats(utterance); len(formats) > 0 {
		fmt.Fprintf(&prompt, "\nUSER FORMAT PREFERENCE: %s\n", strings.Join(formats, ", "))
		prompt.WriteString("Prioritize files with these formats, but also consider other formats if they're better matches.\n")
	}

	prompt.WriteString("\nCRITICAL REMINDER - UNDERSTAND USER INTENT:\n")
	prompt.WriteString("- \"find job documents\" = looking for CV, resume, employment records, job offers, cover letters\n")
	prompt.WriteString("- \"find travel documents\" = looking for passport, visa, i94, boarding passes, travel itineraries\n")
	prompt.WriteString("- \"find financial documents\" = looking for taxes, budgets, invoices, bank statements\n")
	prompt.WriteString("Think SEMANTICALLY about what files match the user's REAL NEED, not just keyword overlap.\n\n")

	prompt.WriteString("Available files:\n")
	for i, c := range candidates {
		fmt.Fprintf(&prompt, "%d. %s (%s)\n", i+1, c.Name(), c.Ext())
		fmt.Fprintf(&prompt, "   Path: %s\n", c.Path)
		fmt.Fprintf(&prompt, "   Preview: %s\n", utils.Truncate(c.Preview, previewLimit))
		fmt.Fprintf(&prompt, "   Score: %.3f (seen by %d phrasings)\n", c.CombinedScore, len(c.Appearances))
	}

	fmt.Fprintf(&prompt, "\nAnalyze ALL %d files. For EACH file output EXACTLY this block:\n\n", len(candidates))
	prompt.WriteString("CANDIDATE <number>:\n")
	prompt.WriteString("TYPE: <document type>\n")
	prompt.WriteString("MATCH: YES or NO\n")
	prompt.WriteString("REASON: <one line>\n\n")
	prompt.WriteString("Then finish with:\n\n")
	prompt.WriteString("SELECTED: <comma-separated numbers of the best matches, e.g., \"1, 3, 5\">\n")
	prompt.WriteString("SUMMARY: <one line explaining the selection>\n\n")
	prompt.WriteString("BE GENEROUS in matching - if it's plausibly related, give it credit.\n")
	prompt.WriteString("Begin your analysis:")
	return prompt.String()
}
