// Package search turns one expanded query into several alternative
// phrasings, fans them out against the vector index, and fuses the hits
// into a single deterministic ranking.
package search

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-filesearch-be/pkg/call"
	"ai-filesearch-be/pkg/llm"
	vectorsearch "ai-filesearch-be/pkg/search"
	"ai-filesearch-be/pkg/store"
)

// Config encapsulates search orchestration parameters.
type Config struct {
	// Phrasings is how many alternative query phrasings to search with.
	// 1 skips phrasing generation and searches the expanded query directly.
	Phrasings int

	// TopK is how many hits each individual phrasing search requests.
	TopK int

	// CandidateLimit caps the fused ranking handed to the reranker.
	CandidateLimit int

	// ModelTimeout bounds the phrasing-generation model call.
	ModelTimeout time.Duration

	// SearchTimeout bounds each individual vector search attempt.
	SearchTimeout time.Duration
}

// DefaultConfig returns default search configuration.
func DefaultConfig() Config {
	return Config{
		Phrasings:      4,
		TopK:           30,
		CandidateLimit: 20,
		ModelTimeout:   20 * time.Second,
		SearchTimeout:  15 * time.Second,
	}
}

// Orchestrator runs the multi-phrasing search pass: one phrasing-generation
// model call, one vector search per phrasing (concurrent), one fused ranking.
type Orchestrator struct {
	llmProvider llm.LLMProvider
	searcher    vectorsearch.Searcher
	logger      *log.Logger
	config      Config
}

// NewOrchestrator creates a new search orchestrator.
func NewOrchestrator(llmProvider llm.LLMProvider, searcher vectorsearch.Searcher, logger *log.Logger, config Config) *Orchestrator {
	if config.Phrasings < 1 {
		config.Phrasings = 1
	}
	return &Orchestrator{
		llmProvider: llmProvider,
		searcher:    searcher,
		logger:      logger,
		config:      config,
	}
}

// Search returns the fused candidate ranking for an utterance. The expanded
// query seeds phrasing generation and pads any shortfall. An empty result
// is not an error; the error return fires only when every phrasing search
// failed, as a *vectorsearch.UnavailableError.
func (o *Orchestrator) Search(ctx context.Context, utterance, expanded string) ([]store.Candidate, error) {
	phrasings := o.generatePhrasings(ctx, utterance, expanded)
	for i, p := range phrasings {
		o.logger.Printf("[SEARCH] phrasing %d/%d: %s", i+1, len(phrasings), p)
	}

	hits, searched, err := o.searchAll(ctx, phrasings)
	if err != nil {
		return nil, err
	}

	candidates := fuse(hits, searched)
	o.logger.Printf("[SEARCH] fused %d unique candidates from %d phrasings", len(candidates), searched)

	if len(candidates) > o.config.CandidateLimit {
		candidates = candidates[:o.config.CandidateLimit]
	}

	if formats := DetectFormats(utterance); len(formats) > 0 {
		o.logger.Printf("[SEARCH] format preference detected: %v", formats)
		candidates = reorderByFormat(candidates, formats)
	}

	for i, c := range candidates {
		if i == 5 {
			break
		}
		o.logger.Printf("[SEARCH] %d. %s score=%.3f (in %d/%d phrasings)",
			i+1, c.Name(), c.CombinedScore, len(c.Appearances), searched)
	}
	return candidates, nil
}

// generatePhrasings asks the model for Phrasings alternative phrasings in
// one call. Any failure or shortfall is padded with the expanded query, so
// the count always comes back exact.
func (o *Orchestrator) generatePhrasings(ctx context.Context, utterance, expanded string) []string {
	p := o.config.Phrasings
	if p == 1 {
		return []string{expanded}
	}

	cfg := call.Config{Timeout: o.config.ModelTimeout}
	answer, err := call.Try(ctx, cfg, func(ctx context.Context) (string, error) {
		return o.llmProvider.Generate(ctx, buildPhrasingPrompt(utterance, p), llm.WithTemperature(0.5), llm.WithMaxTokens(300))
	})
	if err != nil {
		o.logger.Printf("[SEARCH] phrasing generation failed, padding with expanded query: %v", err)
		return padPhrasings(nil, p, expanded)
	}
	return ParsePhrasings(answer, p, expanded)
}

// searchAll fans the phrasings out against the index concurrently. A failed
// phrasing is retried once when transient, then dropped; searched reports
// how many phrasings actually returned. All of them failing means the index
// is unreachable this turn.
func (o *Orchestrator) searchAll(ctx context.Context, phrasings []string) ([][]vectorsearch.Result, int, error) {
	hits := make([][]vectorsearch.Result, len(phrasings))
	errs := make([]error, len(phrasings))

	var g errgroup.Group
	for i, phrasing := range phrasings {
		g.Go(func() error {
			cfg := call.Config{Timeout: o.config.SearchTimeout, Retry: vectorsearch.IsTransient}
			results, err := call.Try(ctx, cfg, func(ctx context.Context) ([]vectorsearch.Result, error) {
				return o.searcher.Search(ctx, phrasing, o.config.TopK)
			})
			if err != nil {
				o.logger.Printf("[SEARCH] phrasing %d failed: %v", i+1, err)
				errs[i] = err
				return err
			}
			hits[i] = results
			return nil
		})
	}
	// Wait's error is ignored: partial failures proceed with whatever
	// phrasings succeeded, and total failure is detected below.
	_ = g.Wait()

	searched := 0
	var firstErr error
	for i := range phrasings {
		if errs[i] == nil {
			searched++
		} else if firstErr == nil {
			firstErr = errs[i]
		}
	}
	if searched == 0 {
		return nil, 0, &vectorsearch.UnavailableError{Err: firstErr}
	}
	return hits, searched, nil
}

// accumulator gathers the per-phrasing sightings of one path before scoring.
type accumulator struct {
	candidate store.Candidate
	scoreSum  float64
	rankSum   float64
}

// fuse merges per-phrasing hit lists by path and computes the weighted
// ranking. Frequency dominates (a file that several phrasings agree on is
// almost certainly the right one), then rank position, then raw similarity.
func fuse(hits [][]vectorsearch.Result, searched int) []store.Candidate {
	byPath := make(map[string]*accumulator)
	var order []string

	for phrasing, results := range hits {
		for idx, res := range results {
			acc, ok := byPath[res.Path]
			if !ok {
				acc = &accumulator{candidate: store.Candidate{
					Path:          res.Path,
					Preview:       res.Preview,
					FirstPhrasing: phrasing,
				}}
				byPath[res.Path] = acc
				order = append(order, res.Path)
			}
			rank := idx + 1
			acc.candidate.Appearances = append(acc.candidate.Appearances, store.Appearance{
				Phrasing: phrasing,
				Rank:     rank,
				Score:    res.Score,
			})
			acc.rankSum += 1.0 / float64(rank)
			acc.scoreSum += res.Score
		}
	}

	candidates := make([]store.Candidate, 0, len(order))
	for _, path := range order {
		acc := byPath[path]
		n := float64(len(acc.candidate.Appearances))
		acc.candidate.Frequency = n / float64(searched)
		acc.candidate.PositionScore = acc.rankSum / n
		acc.candidate.Similarity = acc.scoreSum / n
		acc.candidate.CombinedScore = 3.0*acc.candidate.Frequency +
			2.0*acc.candidate.PositionScore +
			1.0*acc.candidate.Similarity
		candidates = append(candidates, acc.candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].CombinedScore != candidates[j].CombinedScore {
			return candidates[i].CombinedScore > candidates[j].CombinedScore
		}
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].FirstPhrasing < candidates[j].FirstPhrasing
	})
	return candidates
}
