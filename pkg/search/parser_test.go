package search

import "testing"

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want SearchFilters
	}{
		{
			name: "plain query",
			raw:  "quarterly budget report",
			want: SearchFilters{SearchQuery: "quarterly budget report"},
		},
		{
			name: "extension filter",
			raw:  "budget /ext:xlsx",
			want: SearchFilters{Extension: ".xlsx", SearchQuery: "budget"},
		},
		{
			name: "extension filter with dot",
			raw:  "/ext:.pdf resume",
			want: SearchFilters{Extension: ".pdf", SearchQuery: "resume"},
		},
		{
			name: "directory and name filters",
			raw:  "/in:taxes /name:w2 2023",
			want: SearchFilters{PathFragment: "taxes", NameFragment: "w2", SearchQuery: "2023"},
		},
		{
			name: "filters only",
			raw:  "/name:resume",
			want: SearchFilters{NameFragment: "resume"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuery(tt.raw); got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDetermineStrategy(t *testing.T) {
	tests := []struct {
		query string
		want  SearchStrategy
	}{
		{"docs/report.pdf", StrategyLiteral},
		{"ext:pdf", StrategyLiteral},
		{"cv", StrategyLiteral},
		{"\"Professional_CV\"", StrategyLiteral},
		{"something about last year's taxes", StrategySemantic},
		{"meeting notes from team C", StrategySemantic},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := DetermineStrategy(tt.query); got != tt.want {
				t.Errorf("DetermineStrategy(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
