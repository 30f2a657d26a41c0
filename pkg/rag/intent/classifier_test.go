package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/store"
)

// fakeLLM counts calls and plays back a scripted answer.
type fakeLLM struct {
	answer string
	err    error
	calls  int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.calls++
	return f.answer, f.err
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, "", opts...)
}

func newTestClassifier(model *fakeLLM) *Classifier {
	return NewClassifier(model, log.New(io.Discard, "", 0), DefaultConfig())
}

func stateWithResults(paths ...string) store.ConversationState {
	state := store.NewConversationState()
	for _, p := range paths {
		state.LastResults = append(state.LastResults, store.Candidate{Path: p})
	}
	return state
}

func TestClassifyRulesNeedNoModel(t *testing.T) {
	tests := []struct {
		name       string
		utterance  string
		state      store.ConversationState
		wantIntent string
		wantRule   string
		wantSub    string
	}{
		{"greeting hello", "hello", store.NewConversationState(), GeneralChat, RuleSmalltalk, SubKindNone},
		{"greeting with punctuation", "Thanks!", store.NewConversationState(), GeneralChat, RuleSmalltalk, SubKindNone},
		{"greeting good morning", "good morning", store.NewConversationState(), GeneralChat, RuleSmalltalk, SubKindNone},
		{"help", "what can you do?", store.NewConversationState(), GeneralChat, RuleHelp, SubKindNone},
		{"physical object", "where is the toilet paper", store.NewConversationState(), GeneralChat, RulePhysicalObject, SubKindNone},
		{"physical object keys", "have you seen my keys", store.NewConversationState(), GeneralChat, RulePhysicalObject, SubKindNone},
		{"search verb and file noun", "find my resume", store.NewConversationState(), FileSearch, RuleSearchVerbFileNoun, SubKindNone},
		{"search verb and file noun budget", "show me the budget spreadsheet", store.NewConversationState(), FileSearch, RuleSearchVerbFileNoun, SubKindNone},
		{"file noun alone", "vacation photos", store.NewConversationState(), FileSearch, RuleFileNoun, SubKindNone},
		{"unrelated topic", "tell me a joke", store.NewConversationState(), GeneralChat, RuleUnrelatedTopic, SubKindNone},
		{"unrelated weather", "how is the weather", store.NewConversationState(), GeneralChat, RuleUnrelatedTopic, SubKindNone},
		{"analysis followup", "summarize the first one", stateWithResults("A.pdf", "B.pdf"), GeneralChat, RuleAnalysisFollowup, SubKindAnalysis},
		{"analysis followup whats in", "what's in that file", stateWithResults("A.pdf"), GeneralChat, RuleAnalysisFollowup, SubKindAnalysis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeLLM{}
			c := newTestClassifier(model)

			got := c.Classify(context.Background(), tt.utterance, tt.state)

			if got.Intent != tt.wantIntent {
				t.Errorf("Intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			if got.Rule != tt.wantRule {
				t.Errorf("Rule = %s, want %s", got.Rule, tt.wantRule)
			}
			if got.SubKind != tt.wantSub {
				t.Errorf("SubKind = %q, want %q", got.SubKind, tt.wantSub)
			}
			if got.Via != ViaRule {
				t.Errorf("Via = %s, want %s", got.Via, ViaRule)
			}
			if model.calls != 0 {
				t.Errorf("model called %d times, want 0", model.calls)
			}
		})
	}
}

func TestClassifyAnalysisRequiresResults(t *testing.T) {
	// "summarize" without a prior result set must not become an analysis
	// follow-up; with no file noun either, it reaches the model fallback.
	model := &fakeLLM{answer: "GENERAL_CHAT"}
	c := newTestClassifier(model)

	got := c.Classify(context.Background(), "summarize everything you know", store.NewConversationState())

	if got.Rule == RuleAnalysisFollowup {
		t.Errorf("Rule = %s with empty last results", got.Rule)
	}
}

func TestClassifyRuleOrderAnalysisBeatsSearch(t *testing.T) {
	// "summarize the first document" contains a file noun, but with results
	// present the analysis rule must win because it runs first.
	model := &fakeLLM{}
	c := newTestClassifier(model)

	got := c.Classify(context.Background(), "summarize the first document", stateWithResults("A.pdf"))

	if got.Rule != RuleAnalysisFollowup {
		t.Errorf("Rule = %s, want %s", got.Rule, RuleAnalysisFollowup)
	}
	if got.Intent != GeneralChat || got.SubKind != SubKindAnalysis {
		t.Errorf("got %s/%s, want %s/%s", got.Intent, got.SubKind, GeneralChat, SubKindAnalysis)
	}
}

func TestClassifyModelFallbackTrusted(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		wantIntent string
	}{
		{"model says search", "FILE_SEARCH", FileSearch},
		{"model says chat", "GENERAL_CHAT", GeneralChat},
		{"model answer with noise", "  The answer is FILE_SEARCH.", FileSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeLLM{answer: tt.answer}
			c := newTestClassifier(model)

			// No rule vocabulary in this utterance.
			got := c.Classify(context.Background(), "that thing from last week", store.NewConversationState())

			if got.Intent != tt.wantIntent {
				t.Errorf("Intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			if got.Via != ViaModel {
				t.Errorf("Via = %s, want %s", got.Via, ViaModel)
			}
			if model.calls != 1 {
				t.Errorf("model called %d times, want 1", model.calls)
			}
		})
	}
}

func TestClassifyModelFailureFallsBackLoose(t *testing.T) {
	tests := []struct {
		name       string
		utterance  string
		wantIntent string
	}{
		{"extension token rescues search", "grab budget_2024.xlsx for me please", FileSearch},
		{"nothing file-like defaults to chat", "hmm whatever really", GeneralChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeLLM{err: errors.New("provider down")}
			c := newTestClassifier(model)

			got := c.Classify(context.Background(), tt.utterance, store.NewConversationState())

			if got.Intent != tt.wantIntent {
				t.Errorf("Intent = %s, want %s", got.Intent, tt.wantIntent)
			}
			if got.Rule != RuleModelFallback {
				t.Errorf("Rule = %s, want %s", got.Rule, RuleModelFallback)
			}
		})
	}
}

func TestClassifyMalformedModelOutputFallsBack(t *testing.T) {
	model := &fakeLLM{answer: "I am not sure what you mean"}
	c := newTestClassifier(model)

	got := c.Classify(context.Background(), "that stuff from before", store.NewConversationState())

	if got.Intent != GeneralChat {
		t.Errorf("Intent = %s, want %s", got.Intent, GeneralChat)
	}
	if got.Via != ViaRule {
		t.Errorf("Via = %s, want %s (malformed answer must not count as model-resolved)", got.Via, ViaRule)
	}
}
