package search

import (
	"reflect"
	"strings"
	"testing"
)

func TestParsePhrasings(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   []string
	}{
		{
			name:   "clean protocol",
			answer: "PHRASING_1: resume professional experience\nPHRASING_2: CV curriculum vitae\nPHRASING_3: employment history\nPHRASING_4: career profile",
			want:   []string{"resume professional experience", "CV curriculum vitae", "employment history", "career profile"},
		},
		{
			name:   "chatter around the protocol",
			answer: "Sure! Here are your phrasings:\n\nPHRASING_1: travel documents passport\nPHRASING_2: visa immigration papers\nPHRASING_3: i94 arrival departure\nPHRASING_4: boarding pass ticket\n\nHope that helps!",
			want:   []string{"travel documents passport", "visa immigration papers", "i94 arrival departure", "boarding pass ticket"},
		},
		{
			name:   "extras truncated",
			answer: "PHRASING_1: a\nPHRASING_2: b\nPHRASING_3: c\nPHRASING_4: d\nPHRASING_5: e\nPHRASING_6: f",
			want:   []string{"a", "b", "c", "d"},
		},
		{
			name:   "shortfall padded with fallback",
			answer: "PHRASING_1: budget expenses\nPHRASING_2: financial report",
			want:   []string{"budget expenses", "financial report", "fallback query", "fallback query"},
		},
		{
			name:   "bracket placeholders stripped",
			answer: "PHRASING_1: [tax return 1040]\nPHRASING_2: \"W2 filing\"\nPHRASING_3: income statement\nPHRASING_4: IRS deduction",
			want:   []string{"tax return 1040", "W2 filing", "income statement", "IRS deduction"},
		},
		{
			name:   "empty answer all fallback",
			answer: "",
			want:   []string{"fallback query", "fallback query", "fallback query", "fallback query"},
		},
		{
			name:   "lines without colon ignored",
			answer: "PHRASING_1 resume\nPHRASING_2: CV",
			want:   []string{"CV", "fallback query", "fallback query", "fallback query"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePhrasings(tt.answer, 4, "fallback query")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePhrasings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildPhrasingPromptCountsMatch(t *testing.T) {
	prompt := buildPhrasingPrompt("find my resume", 4)
	for _, marker := range []string{"PHRASING_1:", "PHRASING_2:", "PHRASING_3:", "PHRASING_4:"} {
		if !strings.Contains(prompt, marker) {
			t.Errorf("prompt missing %s", marker)
		}
	}
	if strings.Contains(prompt, "PHRASING_5:") {
		t.Error("prompt asks for more phrasings than configured")
	}
}
