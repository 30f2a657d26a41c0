// Package response turns a turn's outcome into the user-facing reply.
// Composition is deterministic templating: the reply category follows
// entirely from the classification and the selection, never from hidden
// model calls.
package response

import (
	"fmt"
	"log"
	"strings"

	"ai-filesearch-be/pkg/rag/intent"
	"ai-filesearch-be/pkg/rag/rerank"
	"ai-filesearch-be/pkg/store"
	"ai-filesearch-be/pkg/utils"
)

// Reply is the composed outcome of one turn: the text shown to the user
// plus the files it refers to.
type Reply struct {
	Text  string
	Files []store.Candidate
}

// Config encapsulates composer tunables.
type Config struct {
	// PreviewLimit caps how much of a file's preview is quoted in an
	// analysis reply.
	PreviewLimit int
}

// DefaultConfig returns default composer configuration.
func DefaultConfig() Config {
	return Config{PreviewLimit: 600}
}

// Composer assembles reply text from classification and selection.
type Composer struct {
	logger *log.Logger
	config Config
}

// NewComposer creates a new response composer.
func NewComposer(logger *log.Logger, config Config) *Composer {
	return &Composer{
		logger: logger,
		config: config,
	}
}

// ComposeSearch builds the reply for a completed search turn. Selected
// files are enumerated with the reranker's summary when one exists; an
// empty selection produces the "no files found" guidance instead.
func (c *Composer) ComposeSearch(candidates []store.Candidate, outcome rerank.Outcome) Reply {
	selected := make([]store.Candidate, 0, len(outcome.Selected))
	for _, idx := range outcome.Selected {
		if idx >= 0 && idx < len(candidates) {
			selected = append(selected, candidates[idx])
		}
	}

	if len(selected) == 0 {
		c.logger.Printf("[COMPOSER] no files selected")
		return Reply{Text: msgNoMatches}
	}

	var b strings.Builder
	switch {
	case outcome.Reasoned && len(selected) == 1:
		b.WriteString(fmt.Sprintf(fmtExactMatch, selected[0].Name()))
	case outcome.Reasoned:
		b.WriteString(fmt.Sprintf(fmtMatchHeader, len(selected)))
		for i, f := range selected {
			b.WriteString(fmt.Sprintf(fmtListItem, i+1, f.Name()))
		}
	default:
		b.WriteString(fmt.Sprintf(fmtLowConfidenceHeader, len(selected)))
		for i, f := range selected {
			b.WriteString(fmt.Sprintf(fmtListItem, i+1, f.Name()))
		}
	}

	if summary := strings.TrimSpace(outcome.Summary); summary != "" {
		b.WriteString("\n")
		b.WriteString(summary)
	}

	c.logger.Printf("[COMPOSER] %d file(s) selected (reasoned=%v)", len(selected), outcome.Reasoned)
	return Reply{Text: b.String(), Files: selected}
}

// ComposeUnavailable builds the reply for a turn the vector search could
// not serve at all.
func (c *Composer) ComposeUnavailable() Reply {
	return Reply{Text: msgUnavailable}
}

// ComposeChat builds the reply for a general-chat turn. Each classifier
// rule gets its own phrasing; an analysis follow-up quotes the preview of
// the referenced file when the reference resolved.
func (c *Composer) ComposeChat(cls intent.Classification, referenced store.Candidate, resolved bool) Reply {
	if cls.SubKind == intent.SubKindAnalysis {
		return c.composeAnalysis(referenced, resolved)
	}

	switch cls.Rule {
	case intent.RuleSmalltalk:
		return Reply{Text: msgSmalltalk}
	case intent.RuleHelp:
		return Reply{Text: msgHelp}
	case intent.RulePhysicalObject:
		return Reply{Text: msgPhysicalObject}
	case intent.RuleUnrelatedTopic:
		return Reply{Text: msgUnrelatedTopic}
	default:
		return Reply{Text: msgFallbackChat}
	}
}

func (c *Composer) composeAnalysis(candidate store.Candidate, resolved bool) Reply {
	if !resolved {
		return Reply{Text: msgLostReference}
	}

	preview := strings.TrimSpace(candidate.Preview)
	if preview == "" {
		return Reply{
			Text:  fmt.Sprintf(fmtNoPreview, candidate.Name()),
			Files: []store.Candidate{candidate},
		}
	}

	return Reply{
		Text:  fmt.Sprintf(fmtAnalysisHeader, candidate.Name()) + utils.Truncate(preview, c.config.PreviewLimit),
		Files: []store.Candidate{candidate},
	}
}
