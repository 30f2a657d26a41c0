package search

import (
	"strings"
)

// SearchFilters holds the extracted filters and the remaining clean query
type SearchFilters struct {
	Extension    string
	PathFragment string
	NameFragment string
	SearchQuery  string // The remaining text to match semantically
}

// ParseQuery extracts slash commands from the raw query string
// Supported:
// /ext:<suffix> -> Filter by file extension
// /in:<term> -> Filter by path fragment (directory)
// /name:<term> -> Filter by file name
// <text> -> Remaining text is the SearchQuery
func ParseQuery(raw string) SearchFilters {
	filters := SearchFilters{}
	parts := strings.Fields(raw)
	var cleanParts []string

	for _, part := range parts {
		lowerPart := strings.ToLower(part)

		if strings.HasPrefix(lowerPart, "/ext:") {
			filters.Extension = normalizeExt(strings.TrimPrefix(lowerPart, "/ext:"))
		} else if strings.HasPrefix(lowerPart, "/in:") {
			filters.PathFragment = strings.TrimPrefix(lowerPart, "/in:")
		} else if strings.HasPrefix(lowerPart, "/name:") {
			filters.NameFragment = strings.TrimPrefix(lowerPart, "/name:")
		} else {
			cleanParts = append(cleanParts, part)
		}
	}

	filters.SearchQuery = strings.Join(cleanParts, " ")
	return filters
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
