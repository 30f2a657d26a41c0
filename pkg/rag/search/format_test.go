package search

import (
	"reflect"
	"testing"

	"ai-filesearch-be/pkg/store"
)

func TestDetectFormats(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      []string
	}{
		{"pdf word", "send me the report as a PDF", []string{".pdf"}},
		{"excel keywords", "the budget spreadsheet", []string{".xlsx", ".xls", ".csv"}},
		{"multiple groups", "pdf or excel version", []string{".pdf", ".xlsx", ".xls", ".csv"}},
		{"no preference", "find my resume", nil},
		{"presentation", "the quarterly slides", []string{".pptx", ".ppt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFormats(tt.utterance)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectFormats(%q) = %v, want %v", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestReorderByFormatIsStable(t *testing.T) {
	candidates := []store.Candidate{
		{Path: "/a/1.docx"},
		{Path: "/a/2.pdf"},
		{Path: "/a/3.docx"},
		{Path: "/a/4.pdf"},
	}

	got := reorderByFormat(candidates, []string{".pdf"})

	want := []string{"/a/2.pdf", "/a/4.pdf", "/a/1.docx", "/a/3.docx"}
	for i, path := range want {
		if got[i].Path != path {
			t.Fatalf("position %d = %s, want %s (got order %+v)", i, got[i].Path, path, got)
		}
	}
}

func TestReorderByFormatNoMatchesKeepsOrder(t *testing.T) {
	candidates := []store.Candidate{
		{Path: "/a/1.docx"},
		{Path: "/a/2.txt"},
	}

	got := reorderByFormat(candidates, []string{".pdf"})

	if got[0].Path != "/a/1.docx" || got[1].Path != "/a/2.txt" {
		t.Errorf("order must be unchanged when nothing matches, got %+v", got)
	}
}
