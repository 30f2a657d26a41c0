package response

import (
	"io"
	"log"
	"strings"
	"testing"

	"ai-filesearch-be/pkg/rag/intent"
	"ai-filesearch-be/pkg/rag/rerank"
	"ai-filesearch-be/pkg/store"
)

func newTestComposer() *Composer {
	return NewComposer(log.New(io.Discard, "", 0), DefaultConfig())
}

var searchCandidates = []store.Candidate{
	{Path: "/docs/Professional_CV.pdf", Preview: "Experienced software engineer...", CombinedScore: 5.5},
	{Path: "/docs/old_resume.docx", Preview: "Resume from 2019...", CombinedScore: 4.2},
	{Path: "/media/trip_photo.jpg", Preview: "", CombinedScore: 3.0},
}

func TestComposeSearchSingleMatch(t *testing.T) {
	c := newTestComposer()

	reply := c.ComposeSearch(searchCandidates, rerank.Outcome{
		Selected: []int{0},
		Summary:  "Your current CV is the strongest match.",
		Reasoned: true,
	})

	if !strings.Contains(reply.Text, "I found exactly what you're looking for!") {
		t.Errorf("text = %q, want exact-match phrasing", reply.Text)
	}
	if !strings.Contains(reply.Text, "📄 Professional_CV.pdf") {
		t.Errorf("text = %q, want file name with marker", reply.Text)
	}
	if !strings.Contains(reply.Text, "Your current CV is the strongest match.") {
		t.Errorf("text = %q, want summary appended", reply.Text)
	}
	if len(reply.Files) != 1 || reply.Files[0].Path != "/docs/Professional_CV.pdf" {
		t.Errorf("files = %+v, want the selected candidate", reply.Files)
	}
}

func TestComposeSearchMultipleMatches(t *testing.T) {
	c := newTestComposer()

	reply := c.ComposeSearch(searchCandidates, rerank.Outcome{
		Selected: []int{0, 1},
		Reasoned: true,
	})

	if !strings.Contains(reply.Text, "I found 2 file(s) matching your request:") {
		t.Errorf("text = %q, want counted header", reply.Text)
	}
	if !strings.Contains(reply.Text, "1. 📄 Professional_CV.pdf") ||
		!strings.Contains(reply.Text, "2. 📄 old_resume.docx") {
		t.Errorf("text = %q, want numbered file list", reply.Text)
	}
	if len(reply.Files) != 2 {
		t.Errorf("files = %d entries, want 2", len(reply.Files))
	}
}

func TestComposeSearchLowConfidence(t *testing.T) {
	c := newTestComposer()

	reply := c.ComposeSearch(searchCandidates, rerank.Outcome{
		Selected: []int{0, 1},
		Reasoned: false,
	})

	if !strings.Contains(reply.Text, "might match your request (lower confidence)") {
		t.Errorf("text = %q, want lower-confidence phrasing", reply.Text)
	}
}

func TestComposeSearchEmptySelection(t *testing.T) {
	c := newTestComposer()

	reply := c.ComposeSearch(searchCandidates, rerank.Outcome{Reasoned: true})

	if !strings.Contains(reply.Text, "I couldn't find files matching your request.") {
		t.Errorf("text = %q, want no-matches guidance", reply.Text)
	}
	if len(reply.Files) != 0 {
		t.Errorf("files = %+v, want none", reply.Files)
	}
}

func TestComposeSearchSkipsOutOfRangeIndexes(t *testing.T) {
	c := newTestComposer()

	reply := c.ComposeSearch(searchCandidates, rerank.Outcome{
		Selected: []int{0, 7, -1},
		Reasoned: true,
	})

	if len(reply.Files) != 1 || reply.Files[0].Path != "/docs/Professional_CV.pdf" {
		t.Errorf("files = %+v, want only the in-range candidate", reply.Files)
	}
}

func TestComposeUnavailable(t *testing.T) {
	c := newTestComposer()

	reply := c.ComposeUnavailable()
	if !strings.Contains(reply.Text, "temporarily unavailable") {
		t.Errorf("text = %q, want unavailability notice", reply.Text)
	}
	if len(reply.Files) != 0 {
		t.Errorf("files = %+v, want none", reply.Files)
	}
}

func TestComposeChatPerRule(t *testing.T) {
	c := newTestComposer()

	tests := []struct {
		name string
		cls  intent.Classification
		want string
	}{
		{
			name: "smalltalk",
			cls:  intent.Classification{Intent: intent.GeneralChat, Rule: intent.RuleSmalltalk},
			want: "Hi! I'm your file search assistant.",
		},
		{
			name: "help",
			cls:  intent.Classification{Intent: intent.GeneralChat, Rule: intent.RuleHelp},
			want: "\"meeting notes team C\"",
		},
		{
			name: "physical object",
			cls:  intent.Classification{Intent: intent.GeneralChat, Rule: intent.RulePhysicalObject},
			want: "not physical items",
		},
		{
			name: "unrelated topic",
			cls:  intent.Classification{Intent: intent.GeneralChat, Rule: intent.RuleUnrelatedTopic},
			want: "I can't help with that",
		},
		{
			name: "model fallback",
			cls:  intent.Classification{Intent: intent.GeneralChat, Rule: intent.RuleModelFallback},
			want: "Please search for a file.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.ComposeChat(tt.cls, store.Candidate{}, false)
			if !strings.Contains(reply.Text, tt.want) {
				t.Errorf("text = %q, want it to contain %q", reply.Text, tt.want)
			}
			if len(reply.Files) != 0 {
				t.Errorf("files = %+v, want none for plain chat", reply.Files)
			}
		})
	}
}

func TestComposeAnalysisWithResolvedFile(t *testing.T) {
	c := newTestComposer()
	cls := intent.Classification{
		Intent:  intent.GeneralChat,
		SubKind: intent.SubKindAnalysis,
		Rule:    intent.RuleAnalysisFollowup,
	}

	reply := c.ComposeChat(cls, searchCandidates[0], true)

	if !strings.Contains(reply.Text, "Here's what I have on 📄 Professional_CV.pdf:") {
		t.Errorf("text = %q, want analysis header", reply.Text)
	}
	if !strings.Contains(reply.Text, "Experienced software engineer") {
		t.Errorf("text = %q, want quoted preview", reply.Text)
	}
	if len(reply.Files) != 1 || reply.Files[0].Path != "/docs/Professional_CV.pdf" {
		t.Errorf("files = %+v, want the referenced file", reply.Files)
	}
}

func TestComposeAnalysisUnresolvedReference(t *testing.T) {
	c := newTestComposer()
	cls := intent.Classification{
		Intent:  intent.GeneralChat,
		SubKind: intent.SubKindAnalysis,
		Rule:    intent.RuleAnalysisFollowup,
	}

	reply := c.ComposeChat(cls, store.Candidate{}, false)

	if !strings.Contains(reply.Text, "not sure which file you mean") {
		t.Errorf("text = %q, want lost-reference guidance", reply.Text)
	}
	if len(reply.Files) != 0 {
		t.Errorf("files = %+v, want none", reply.Files)
	}
}

func TestComposeAnalysisWithoutPreview(t *testing.T) {
	c := newTestComposer()
	cls := intent.Classification{
		Intent:  intent.GeneralChat,
		SubKind: intent.SubKindAnalysis,
		Rule:    intent.RuleAnalysisFollowup,
	}

	reply := c.ComposeChat(cls, searchCandidates[2], true)

	if !strings.Contains(reply.Text, "no text preview available") {
		t.Errorf("text = %q, want no-preview notice", reply.Text)
	}
	if len(reply.Files) != 1 {
		t.Errorf("files = %+v, want the referenced file", reply.Files)
	}
}
