// Package expand enriches a raw utterance into a search string with
// synonyms and related terms, so the vector index sees the vocabulary a
// file might actually use ("resume" alone misses a file named CV.pdf).
package expand

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-filesearch-be/pkg/call"
	"ai-filesearch-be/pkg/llm"
)

// Config encapsulates expander tunables.
type Config struct {
	// ModelTimeout bounds the expansion model call.
	ModelTimeout time.Duration

	// MaxTerms caps how many new terms the expansion may add.
	MaxTerms int
}

// DefaultConfig returns default expander configuration.
func DefaultConfig() Config {
	return Config{
		ModelTimeout: 15 * time.Second,
		MaxTerms:     15,
	}
}

// Expander turns an utterance into an enriched search query. The model is
// asked for related terms; the static synonym table covers every failure
// mode, so expansion never fails outward.
type Expander struct {
	llmProvider llm.LLMProvider
	table       Table
	logger      *log.Logger
	config      Config
}

// NewExpander creates a new query expander.
func NewExpander(llmProvider llm.LLMProvider, table Table, logger *log.Logger, config Config) *Expander {
	if table == nil {
		table = DefaultTable()
	}
	return &Expander{
		llmProvider: llmProvider,
		table:       table,
		logger:      logger,
		config:      config,
	}
}

// Expand returns the utterance followed by up to MaxTerms new related
// terms, original-first. Model failure or a degenerate answer (nothing new
// after deduplication) falls back to the synonym table; if no category
// matches either, the utterance comes back unchanged.
func (e *Expander) Expand(ctx context.Context, utterance string) string {
	seen := tokenSet(utterance)

	cfg := call.Config{Timeout: e.config.ModelTimeout}
	answer, err := call.Try(ctx, cfg, func(ctx context.Context) (string, error) {
		return e.llmProvider.Generate(ctx, buildExpandPrompt(utterance), llm.WithTemperature(0.3), llm.WithMaxTokens(150))
	})
	if err == nil {
		terms := e.dedupe(strings.Fields(llm.CleanOutput(answer)), seen)
		if len(terms) > 0 {
			e.logger.Printf("[EXPAND] model added %d terms: %s", len(terms), preview(terms))
			return utterance + " " + strings.Join(terms, " ")
		}
		e.logger.Printf("[EXPAND] model expansion degenerate, using synonym table")
	} else {
		e.logger.Printf("[EXPAND] model expansion failed, using synonym table: %v", err)
	}

	terms := e.dedupe(e.table.Lookup(utterance), seen)
	if len(terms) == 0 {
		return utterance
	}
	e.logger.Printf("[EXPAND] synonym table added %d terms: %s", len(terms), preview(terms))
	return utterance + " " + strings.Join(terms, " ")
}

// dedupe drops terms already present in the utterance or earlier in the
// expansion (case-insensitive) and enforces the MaxTerms cap. Punctuation
// the model sprays around terms (commas, quotes) is stripped first.
func (e *Expander) dedupe(candidates []string, seen map[string]bool) []string {
	taken := make(map[string]bool, len(candidates))
	var terms []string
	for _, c := range candidates {
		term := strings.Trim(c, "\",'.;:()[]")
		if term == "" {
			continue
		}
		lower := strings.ToLower(term)
		if seen[lower] || taken[lower] {
			continue
		}
		taken[lower] = true
		terms = append(terms, term)
		if len(terms) == e.config.MaxTerms {
			break
		}
	}
	return terms
}

func tokenSet(utterance string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(utterance)) {
		set[strings.Trim(tok, "\",'.;:()[]?!")] = true
	}
	return set
}

func preview(terms []string) string {
	if len(terms) > 10 {
		terms = terms[:10]
	}
	return strings.Join(terms, ", ")
}

func buildExpandPrompt(utterance string) string {
	var prompt strings.Builder
	prompt.WriteString("Generate 8-15 additional keywords and synonyms for this search query that would help find relevant files:\n\n")
	prompt.WriteString("Query: \"")
	prompt.WriteString(utterance)
	prompt.WriteString("\"\n\n")
	prompt.WriteString("Add terms that:\n")
	prompt.WriteString("1. Are semantically related (not just word variants)\n")
	prompt.WriteString("2. Represent alternative ways someone might name or refer to similar files\n")
	prompt.WriteString("3. Include domain terms, abbreviations, and related concepts\n")
	prompt.WriteString("4. Think about different contexts where such files appear\n\n")
	prompt.WriteString("Examples:\n")
	prompt.WriteString("- For \"job documents\": employment, career, CV, resume, application, offer letter, position, hire\n")
	prompt.WriteString("- For \"meeting notes\": minutes, transcript, recording, summary, discussion, agenda\n")
	prompt.WriteString("- For \"2023 taxes\": tax return, 1040, filing, income statement, W2, deduction\n\n")
	prompt.WriteString("Return only the additional keywords, space-separated:")
	return prompt.String()
}
