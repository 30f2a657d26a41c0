package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"ai-filesearch-be/pkg/llm"
	vectorsearch "ai-filesearch-be/pkg/search"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

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

// fakeSearcher plays back a fixed result list per query string; unknown
// queries return the default list.
type fakeSearcher struct {
	byQuery map[string][]vectorsearch.Result
	deflt   []vectorsearch.Result
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]vectorsearch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if results, ok := f.byQuery[query]; ok {
		return results, nil
	}
	return f.deflt, nil
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func phrasingAnswer(phrasings ...string) string {
	var b strings.Builder
	for i, p := range phrasings {
		fmt.Fprintf(&b, "PHRASING_%d: %s\n", i+1, p)
	}
	return b.String()
}

func TestSearchFusesAcrossPhrasings(t *testing.T) {
	// Professional_CV.pdf is found by all four phrasings at ranks 1,1,2,1
	// and must come out on top of a file seen once.
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{
		byQuery: map[string][]vectorsearch.Result{
			"p one":   {{Path: "/docs/Professional_CV.pdf", Preview: "cv", Score: 0.9}},
			"p two":   {{Path: "/docs/Professional_CV.pdf", Preview: "cv", Score: 0.8}},
			"p three": {{Path: "/docs/misc.txt", Preview: "misc", Score: 0.95}, {Path: "/docs/Professional_CV.pdf", Preview: "cv", Score: 0.7}},
			"p four":  {{Path: "/docs/Professional_CV.pdf", Preview: "cv", Score: 0.85}},
		},
	}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	got, err := o.Search(context.Background(), "find my resume", "resume CV")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	top := got[0]
	if top.Path != "/docs/Professional_CV.pdf" {
		t.Errorf("top candidate = %s, want Professional_CV.pdf", top.Path)
	}
	if len(top.Appearances) != 4 {
		t.Errorf("appearances = %d, want 4", len(top.Appearances))
	}
	if top.Frequency != 1.0 {
		t.Errorf("frequency = %v, want 1.0", top.Frequency)
	}
	// ranks 1,1,2,1 -> mean(1/rank) = (1+1+0.5+1)/4
	if want := 3.5 / 4.0; top.PositionScore != want {
		t.Errorf("position score = %v, want %v", top.PositionScore, want)
	}
	if model.calls != 1 {
		t.Errorf("phrasing generation used %d model calls, want 1", model.calls)
	}
}

func TestSearchEqualFrequencyHigherSimilarityWins(t *testing.T) {
	// Both files appear once at rank 1; only similarity separates them.
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two")}
	searcher := &fakeSearcher{
		byQuery: map[string][]vectorsearch.Result{
			"p one": {{Path: "/a/low.pdf", Score: 0.4}},
			"p two": {{Path: "/a/high.pdf", Score: 0.9}},
		},
	}
	cfg := DefaultConfig()
	cfg.Phrasings = 2
	o := NewOrchestrator(model, searcher, discard(), cfg)

	got, err := o.Search(context.Background(), "reports", "reports")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].Path != "/a/high.pdf" {
		t.Errorf("higher-similarity candidate must rank first, got %+v", got)
	}
}

func TestSearchDeterministicOrdering(t *testing.T) {
	// Identical scores everywhere; ordering must still be byte-identical
	// across runs (tie-break by similarity then first phrasing).
	results := []vectorsearch.Result{
		{Path: "/a/one.pdf", Score: 0.5},
		{Path: "/a/two.pdf", Score: 0.5},
		{Path: "/a/three.pdf", Score: 0.5},
	}
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{deflt: results}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	first, err := o.Search(context.Background(), "reports", "reports")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		model.answer = phrasingAnswer("p one", "p two", "p three", "p four")
		again, err := o.Search(context.Background(), "reports", "reports")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ordering changed between runs:\nfirst: %+v\nagain: %+v", first, again)
		}
	}
}

func TestSearchTieBreakFirstPhrasing(t *testing.T) {
	// Identical frequency, position, and similarity; the candidate first
	// seen in an earlier phrasing wins.
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{
		byQuery: map[string][]vectorsearch.Result{
			"p one": {{Path: "/a/early.pdf", Score: 0.5}},
			"p two": {{Path: "/a/late.pdf", Score: 0.5}},
		},
	}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	got, err := o.Search(context.Background(), "reports", "reports")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].Path != "/a/early.pdf" || got[1].Path != "/a/late.pdf" {
		t.Errorf("tie must break on first phrasing index, got %+v", got)
	}
}

func TestSearchAllPhrasingsEmptyIsNotAnError(t *testing.T) {
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	got, err := o.Search(context.Background(), "unicorn blueprints", "unicorn blueprints")
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestSearchAllPhrasingsFailingIsUnavailable(t *testing.T) {
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{err: &vectorsearch.UnavailableError{Err: errors.New("index down")}}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	_, err := o.Search(context.Background(), "reports", "reports")
	if !vectorsearch.IsUnavailable(err) {
		t.Errorf("err = %v, want UnavailableError", err)
	}
}

func TestSearchPhrasingModelFailurePadsWithExpanded(t *testing.T) {
	// Model down: all four searches run with the expanded query.
	model := &fakeLLM{err: errors.New("provider down")}
	searcher := &fakeSearcher{
		byQuery: map[string][]vectorsearch.Result{
			"resume CV": {{Path: "/docs/cv.pdf", Score: 0.9}},
		},
	}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	got, err := o.Search(context.Background(), "find my resume", "resume CV")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Path != "/docs/cv.pdf" {
		t.Fatalf("expected the cv hit, got %+v", got)
	}
	if got[0].Frequency != 1.0 {
		t.Errorf("frequency = %v, want 1.0 (all padded phrasings hit)", got[0].Frequency)
	}
}

func TestSearchSinglePhrasingSkipsModel(t *testing.T) {
	model := &fakeLLM{}
	searcher := &fakeSearcher{deflt: []vectorsearch.Result{{Path: "/a/one.pdf", Score: 0.5}}}
	cfg := DefaultConfig()
	cfg.Phrasings = 1
	o := NewOrchestrator(model, searcher, discard(), cfg)

	if _, err := o.Search(context.Background(), "reports", "reports"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model called %d times in single-phrasing mode, want 0", model.calls)
	}
}

func TestSearchCandidateLimit(t *testing.T) {
	var results []vectorsearch.Result
	for i := 0; i < 30; i++ {
		results = append(results, vectorsearch.Result{Path: fmt.Sprintf("/a/file%02d.pdf", i), Score: 0.5})
	}
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{deflt: results}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	got, err := o.Search(context.Background(), "reports", "reports")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != DefaultConfig().CandidateLimit {
		t.Errorf("got %d candidates, want %d", len(got), DefaultConfig().CandidateLimit)
	}
}

func TestSearchFormatPreferenceReorders(t *testing.T) {
	model := &fakeLLM{answer: phrasingAnswer("p one", "p two", "p three", "p four")}
	searcher := &fakeSearcher{deflt: []vectorsearch.Result{
		{Path: "/a/report.docx", Score: 0.9},
		{Path: "/a/report.pdf", Score: 0.5},
	}}
	o := NewOrchestrator(model, searcher, discard(), DefaultConfig())

	got, err := o.Search(context.Background(), "the report as pdf", "report pdf")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].Path != "/a/report.pdf" {
		t.Errorf("pdf must be reordered first, got %+v", got)
	}
}
