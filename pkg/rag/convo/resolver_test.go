package convo

import (
	"testing"

	"ai-filesearch-be/pkg/store"
)

func resultsState(referenced int, paths ...string) store.ConversationState {
	state := store.NewConversationState()
	for _, p := range paths {
		state.LastResults = append(state.LastResults, store.Candidate{Path: p})
	}
	state.LastReferenced = referenced
	return state
}

func TestResolveReference(t *testing.T) {
	three := resultsState(-1, "A.pdf", "B.pdf", "C.pdf")

	tests := []struct {
		name    string
		phrase  string
		state   store.ConversationState
		wantIdx int
		wantOK  bool
	}{
		{"first ordinal", "summarize the first one", three, 0, true},
		{"second ordinal", "what's in the second file", three, 1, true},
		{"third with punctuation", "open the third.", three, 2, true},
		{"bare digit", "summarize 2", three, 1, true},
		{"digit ten", "show 10", resultsState(-1, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"), 9, true},
		{"last keyword", "tell me about the last one", three, 2, true},
		{"ordinal out of range fails closed", "the fifth one", three, 0, false},
		{"digit out of range fails closed", "summarize 9", three, 0, false},
		{"demonstrative single result", "summarize that", resultsState(-1, "only.pdf"), 0, true},
		{"demonstrative it single result", "what does it say", resultsState(-1, "only.pdf"), 0, true},
		{"demonstrative multi with referenced", "tell me more about it", resultsState(1, "A.pdf", "B.pdf"), 1, true},
		{"demonstrative multi no referenced", "summarize that", three, 0, false},
		{"empty result set fails closed", "the first one", store.NewConversationState(), 0, false},
		{"no reference words", "thanks a lot", three, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := ResolveReference(tt.phrase, tt.state)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && idx != tt.wantIdx {
				t.Errorf("idx = %d, want %d", idx, tt.wantIdx)
			}
		})
	}
}

func TestResolveOrdinalBeatsDemonstrative(t *testing.T) {
	// "this" and "first" in one phrase: position wins.
	state := resultsState(2, "A.pdf", "B.pdf", "C.pdf")

	idx, ok := ResolveReference("summarize the first of these", state)

	if !ok || idx != 0 {
		t.Errorf("got (%d, %v), want (0, true)", idx, ok)
	}
}
