package search

import "strings"

type SearchStrategy string

const (
	StrategyLiteral  SearchStrategy = "literal"
	StrategySemantic SearchStrategy = "semantic"
)

// DetermineStrategy decides whether a query should hit the literal filename
// path or the semantic vector path.
//
// Structured fragments ("docs/report.pdf", "ext:pdf"), quoted strings and
// very short tokens ("cv", "q3") read as exact lookups; anything longer and
// unstructured reads as an explorative query.
func DetermineStrategy(query string) SearchStrategy {
	query = strings.TrimSpace(query)

	switch {
	case strings.ContainsAny(query, "/:"):
		return StrategyLiteral
	case len(query) <= 3:
		return StrategyLiteral
	case strings.HasPrefix(query, `"`) && strings.HasSuffix(query, `"`):
		return StrategyLiteral
	default:
		return StrategySemantic
	}
}
