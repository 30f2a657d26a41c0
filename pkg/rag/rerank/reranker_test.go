package rerank

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/store"
)

type fakeLLM struct {
	answer string
	err    error
	prompt string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, "", opts...)
}

func newTestReranker(model *fakeLLM) *Reranker {
	return NewReranker(model, log.New(io.Discard, "", 0), DefaultConfig())
}

func testCandidates() []store.Candidate {
	return []store.Candidate{
		{Path: "/docs/Professional_CV.pdf", Preview: "experienced engineer", CombinedScore: 5.5},
		{Path: "/docs/trip_photo.jpg", Preview: "beach sunset", CombinedScore: 3.1},
		{Path: "/docs/old_essay.docx", Preview: "school essay", CombinedScore: 2.8},
	}
}

func TestRerankReasonedSelection(t *testing.T) {
	model := &fakeLLM{answer: `CANDIDATE 1:
TYPE: resume
MATCH: YES
REASON: professional CV matches the request
CANDIDATE 2:
TYPE: photo
MATCH: NO
REASON: vacation image
CANDIDATE 3:
TYPE: essay
MATCH: NO
REASON: school work
SELECTED: 1
SUMMARY: only the CV is a resume`}
	r := newTestReranker(model)

	out := r.Rerank(context.Background(), "find my resume", testCandidates())

	if !out.Reasoned {
		t.Error("Reasoned = false, want true")
	}
	if !reflect.DeepEqual(out.Selected, []int{0}) {
		t.Errorf("Selected = %v, want [0]", out.Selected)
	}
	if out.Summary != "only the CV is a resume" {
		t.Errorf("Summary = %q", out.Summary)
	}
	if len(out.Decisions) != 3 {
		t.Fatalf("decisions = %d, want 3", len(out.Decisions))
	}
	if !out.Decisions[0].Match || out.Decisions[0].Path != "/docs/Professional_CV.pdf" {
		t.Errorf("decision 0 = %+v", out.Decisions[0])
	}
	if out.Decisions[1].Match {
		t.Errorf("decision 1 = %+v, want no-match", out.Decisions[1])
	}
}

func TestRerankModelFailureFallsBackToScoreOrder(t *testing.T) {
	model := &fakeLLM{err: errors.New("provider down")}
	r := newTestReranker(model)

	out := r.Rerank(context.Background(), "find my resume", testCandidates())

	if out.Reasoned {
		t.Error("Reasoned = true on model failure")
	}
	if !reflect.DeepEqual(out.Selected, []int{0, 1, 2}) {
		t.Errorf("Selected = %v, want score order [0 1 2]", out.Selected)
	}
	for _, d := range out.Decisions {
		if d.Valid || d.Rationale != "" {
			t.Errorf("fallback decision must be empty, got %+v", d)
		}
	}
}

func TestRerankUnparseableReplyFallsBack(t *testing.T) {
	model := &fakeLLM{answer: "I looked at your files and they all seem nice."}
	r := newTestReranker(model)

	out := r.Rerank(context.Background(), "find my resume", testCandidates())

	if out.Reasoned {
		t.Error("Reasoned = true on unparseable reply")
	}
	if !reflect.DeepEqual(out.Selected, []int{0, 1, 2}) {
		t.Errorf("Selected = %v, want score order", out.Selected)
	}
}

func TestRerankBlocksWithoutSelectionKeepsReasoning(t *testing.T) {
	model := &fakeLLM{answer: `CANDIDATE 1:
TYPE: resume
MATCH: YES
REASON: matches
CANDIDATE 2:
TYPE: photo
MATCH: NO
REASON: unrelated
CANDIDATE 3:
TYPE: essay
MATCH: NO
REASON: unrelated
SUMMARY: analyzed without committing`}
	r := newTestReranker(model)

	out := r.Rerank(context.Background(), "find my resume", testCandidates())

	if !out.Reasoned {
		t.Error("Reasoned = false, want true (blocks were recognized)")
	}
	if !reflect.DeepEqual(out.Selected, []int{0, 1, 2}) {
		t.Errorf("Selected = %v, want score order", out.Selected)
	}
	if !out.Decisions[0].Match || out.Decisions[0].Rationale != "matches" {
		t.Errorf("decision 0 = %+v, reasoning must survive", out.Decisions[0])
	}
	if out.Summary != "analyzed without committing" {
		t.Errorf("Summary = %q", out.Summary)
	}
}

func TestRerankSelectionNeverOutOfRange(t *testing.T) {
	model := &fakeLLM{answer: `CANDIDATE 1:
MATCH: YES
SELECTED: 9, 2, 0, -3, 1`}
	r := newTestReranker(model)

	candidates := testCandidates()
	out := r.Rerank(context.Background(), "find my resume", candidates)

	for _, idx := range out.Selected {
		if idx < 0 || idx >= len(candidates) {
			t.Fatalf("selected index %d outside [0,%d)", idx, len(candidates))
		}
	}
	if !reflect.DeepEqual(out.Selected, []int{1, 0}) {
		t.Errorf("Selected = %v, want [1 0]", out.Selected)
	}
}

func TestRerankScoreFallbackIgnoresPresentationOrder(t *testing.T) {
	// Candidates arrive format-reordered: best score sits last.
	model := &fakeLLM{err: errors.New("provider down")}
	cfg := DefaultConfig()
	cfg.MaxResults = 2
	r := NewReranker(model, log.New(io.Discard, "", 0), cfg)

	candidates := []store.Candidate{
		{Path: "/a/low.pdf", CombinedScore: 1.0},
		{Path: "/a/mid.pdf", CombinedScore: 2.0},
		{Path: "/a/high.docx", CombinedScore: 9.0},
	}
	out := r.Rerank(context.Background(), "reports", candidates)

	if !reflect.DeepEqual(out.Selected, []int{2, 1}) {
		t.Errorf("Selected = %v, want [2 1] (by combined score)", out.Selected)
	}
}

func TestRerankEmptyCandidates(t *testing.T) {
	model := &fakeLLM{}
	r := newTestReranker(model)

	out := r.Rerank(context.Background(), "find my resume", nil)

	if len(out.Selected) != 0 || len(out.Decisions) != 0 {
		t.Errorf("empty candidates must yield empty outcome, got %+v", out)
	}
	if model.prompt != "" {
		t.Error("model must not be called for zero candidates")
	}
}

func TestRerankPromptCarriesCandidatesAndFormatHint(t *testing.T) {
	model := &fakeLLM{answer: "SELECTED: 1"}
	r := newTestReranker(model)

	r.Rerank(context.Background(), "the report as pdf", testCandidates())

	for _, want := range []string{"Professional_CV.pdf", "trip_photo.jpg", "old_essay.docx", "USER FORMAT PREFERENCE: .pdf"} {
		if !strings.Contains(model.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
