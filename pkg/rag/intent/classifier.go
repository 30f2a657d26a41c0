package intent

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-filesearch-be/pkg/call"
	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/store"
)

// Top-level intents. Every utterance resolves to exactly one of these.
const (
	FileSearch  = "FILE_SEARCH"
	GeneralChat = "GENERAL_CHAT"
)

// Sub-kinds refine GENERAL_CHAT.
const (
	SubKindNone     = ""
	SubKindAnalysis = "ANALYSIS"
)

// Resolution paths.
const (
	ViaRule  = "rule"
	ViaModel = "model"
)

// Classification is the resolved intent of one utterance.
type Classification struct {
	Intent  string // FileSearch or GeneralChat
	SubKind string // SubKindAnalysis for file follow-ups
	Rule    string // name of the rule that decided
	Via     string // ViaRule or ViaModel
}

// IsSearch reports whether the utterance should go down the search path.
func (c Classification) IsSearch() bool {
	return c.Intent == FileSearch
}

// Config encapsulates classifier tunables.
type Config struct {
	// ModelTimeout bounds the fallback model call.
	ModelTimeout time.Duration
}

// DefaultConfig returns default classifier configuration.
func DefaultConfig() Config {
	return Config{
		ModelTimeout: 10 * time.Second,
	}
}

// rule is one entry of the ordered classification chain. The first rule
// whose match function fires decides the intent; evaluation order is part
// of the classifier's contract, not an implementation detail.
type rule struct {
	name  string
	match func(normalized string, tokens []string, state store.ConversationState) (Classification, bool)
}

// Classifier decides FILE_SEARCH vs GENERAL_CHAT for an utterance.
// Fast heuristic rules run first; the model is consulted only when none of
// them fire, and its failure never propagates.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
	config      Config
	rules       []rule
}

// NewClassifier creates a new intent classifier.
func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger, config Config) *Classifier {
	c := &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
		config:      config,
	}
	c.rules = []rule{
		{name: RuleAnalysisFollowup, match: matchAnalysisFollowup},
		{name: RuleSmalltalk, match: matchSmalltalk},
		{name: RuleHelp, match: matchHelp},
		{name: RulePhysicalObject, match: matchPhysicalObject},
		{name: RuleSearchVerbFileNoun, match: matchSearchVerbFileNoun},
		{name: RuleFileNoun, match: matchFileNoun},
		{name: RuleUnrelatedTopic, match: matchUnrelatedTopic},
	}
	return c
}

// Rule names, exposed so the composer can phrase replies per rule.
const (
	RuleAnalysisFollowup   = "analysis-followup"
	RuleSmalltalk          = "smalltalk"
	RuleHelp               = "help"
	RulePhysicalObject     = "physical-object"
	RuleSearchVerbFileNoun = "search-verb+file-noun"
	RuleFileNoun           = "file-noun"
	RuleUnrelatedTopic     = "unrelated-topic"
	RuleModelFallback      = "model-fallback"
)

// Classify resolves the intent of an utterance against the session state.
// It always returns a definite classification; model errors degrade to a
// loosened heuristic, never to an error.
func (c *Classifier) Classify(ctx context.Context, utterance string, state store.ConversationState) Classification {
	normalized := normalize(utterance)
	tokens := strings.Fields(normalized)

	for _, r := range c.rules {
		if result, ok := r.match(normalized, tokens, state); ok {
			c.logger.Printf("[INTENT] %q -> %s (rule: %s)", utterance, result.Intent, r.name)
			return result
		}
	}

	result := c.classifyWithModel(ctx, utterance, normalized, tokens)
	c.logger.Printf("[INTENT] %q -> %s (rule: %s, via: %s)", utterance, result.Intent, result.Rule, result.Via)
	return result
}

func matchAnalysisFollowup(normalized string, tokens []string, state store.ConversationState) (Classification, bool) {
	if len(state.LastResults) == 0 {
		return Classification{}, false
	}
	if _, ok := containsAny(normalized, tokens, analysisVerbs); !ok {
		return Classification{}, false
	}
	return Classification{Intent: GeneralChat, SubKind: SubKindAnalysis, Rule: RuleAnalysisFollowup, Via: ViaRule}, true
}

func matchSmalltalk(normalized string, tokens []string, _ store.ConversationState) (Classification, bool) {
	if smalltalkSet[stripPunct(normalized)] {
		return Classification{Intent: GeneralChat, Rule: RuleSmalltalk, Via: ViaRule}, true
	}
	return Classification{}, false
}

func matchHelp(normalized string, tokens []string, _ store.ConversationState) (Classification, bool) {
	if helpSet[normalized] || helpSet[stripPunct(normalized)] {
		return Classification{Intent: GeneralChat, Rule: RuleHelp, Via: ViaRule}, true
	}
	return Classification{}, false
}

func matchPhysicalObject(normalized string, tokens []string, _ store.ConversationState) (Classification, bool) {
	if _, ok := containsAny(normalized, tokens, physicalObjects); ok {
		return Classification{Intent: GeneralChat, Rule: RulePhysicalObject, Via: ViaRule}, true
	}
	return Classification{}, false
}

func matchSearchVerbFileNoun(normalized string, tokens []string, _ store.ConversationState) (Classification, bool) {
	_, hasVerb := containsAny(normalized, tokens, searchVerbs)
	_, hasNoun := containsAny(normalized, tokens, fileNouns)
	if hasVerb && hasNoun {
		return Classification{Intent: FileSearch, Rule: RuleSearchVerbFileNoun, Via: ViaRule}, true
	}
	return Classification{}, false
}

func matchFileNoun(normalized string, tokens []string, _ store.ConversationState) (Classification, bool) {
	if _, ok := containsAny(normalized, tokens, fileNouns); ok {
		return Classification{Intent: FileSearch, Rule: RuleFileNoun, Via: ViaRule}, true
	}
	return Classification{}, false
}

func matchUnrelatedTopic(normalized string, tokens []string, _ store.ConversationState) (Classification, bool) {
	if _, ok := containsAny(normalized, tokens, unrelatedTopics); ok {
		return Classification{Intent: GeneralChat, Rule: RuleUnrelatedTopic, Via: ViaRule}, true
	}
	return Classification{}, false
}

// classifyWithModel is the last rule of the chain: a fixed binary prompt
// with a hard timeout. A malformed or failed answer falls back to the
// loosened heuristic so the turn always resolves.
func (c *Classifier) classifyWithModel(ctx context.Context, utterance, normalized string, tokens []string) Classification {
	prompt := buildClassifyPrompt(utterance)

	cfg := call.Config{Timeout: c.config.ModelTimeout}
	answer, err := call.Try(ctx, cfg, func(ctx context.Context) (string, error) {
		return c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithMaxTokens(10))
	})
	if err == nil {
		upper := strings.ToUpper(strings.TrimSpace(answer))
		switch {
		case strings.Contains(upper, FileSearch):
			return Classification{Intent: FileSearch, Rule: RuleModelFallback, Via: ViaModel}
		case strings.Contains(upper, GeneralChat):
			return Classification{Intent: GeneralChat, Rule: RuleModelFallback, Via: ViaModel}
		}
		c.logger.Printf("[INTENT] model answer unusable: %q", answer)
	} else {
		c.logger.Printf("[INTENT] model classify failed: %v", err)
	}

	return c.looseFallback(normalized, tokens)
}

// looseFallback applies rules 4/5 with relaxed matching: any file-noun-like
// token anywhere, including tokens carrying a known file extension.
func (c *Classifier) looseFallback(normalized string, tokens []string) Classification {
	if _, ok := containsAny(normalized, tokens, fileNouns); ok {
		return Classification{Intent: FileSearch, Rule: RuleModelFallback, Via: ViaRule}
	}
	if hasFileExtension(tokens) {
		return Classification{Intent: FileSearch, Rule: RuleModelFallback, Via: ViaRule}
	}
	return Classification{Intent: GeneralChat, Rule: RuleModelFallback, Via: ViaRule}
}

func buildClassifyPrompt(utterance string) string {
	var prompt strings.Builder
	prompt.WriteString("You are an intent classifier for a file search assistant.\n")
	prompt.WriteString("Decide whether the user wants to FIND A FILE on their computer, or is just chatting.\n\n")
	prompt.WriteString("User message: \"")
	prompt.WriteString(utterance)
	prompt.WriteString("\"\n\n")
	prompt.WriteString("Rules:\n")
	prompt.WriteString("- Requests for documents, photos, reports, or anything stored on disk -> FILE_SEARCH\n")
	prompt.WriteString("- Greetings, questions about the world, physical objects, anything else -> GENERAL_CHAT\n\n")
	prompt.WriteString("Answer with EXACTLY one word: FILE_SEARCH or GENERAL_CHAT")
	return prompt.String()
}
