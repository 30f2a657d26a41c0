package rerank

import (
	"strconv"
	"strings"
)

// The reply grammar is line-oriented: one tagged block per candidate, then
// a trailing selection and summary.
//
//	CANDIDATE <n>:
//	TYPE: <document kind>
//	MATCH: YES|NO
//	REASON: <one line>
//	...
//	SELECTED: <n>, <n>, ...
//	SUMMARY: <one line>
//
// <n> is 1-based on the wire. Anything the grammar does not recognize is
// skipped; a malformed block is a first-class outcome, never an error.

// Block is the parsed verdict for one candidate. Valid reports whether a
// well-formed MATCH line was found; an invalid block always reads as no
// match with an empty rationale.
type Block struct {
	Type      string
	Match     bool
	Rationale string
	Valid     bool
}

// Verdict is the parse result of one reranker reply.
type Verdict struct {
	// Blocks has exactly one entry per candidate, in candidate order.
	Blocks []Block

	// Selected holds 0-based candidate indices: validated against the
	// candidate count, deduplicated, truncated to the selection limit,
	// in the order the reply listed them.
	Selected []int

	// Summary is the one-line explanation, empty when absent.
	Summary string

	// Recognized counts distinct candidate blocks found at all. Zero
	// means total parse failure.
	Recognized int
}

// ParseVerdict parses a reranker reply against candidateCount candidates,
// keeping at most maxSelected selection entries. It never fails: garbage in
// yields invalid blocks and an empty selection, which callers treat as a
// parse-failure outcome.
func ParseVerdict(reply string, candidateCount, maxSelected int) Verdict {
	v := Verdict{Blocks: make([]Block, candidateCount)}
	seen := make(map[int]bool)
	current := -1

	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "CANDIDATE"):
			current = -1
			rest, _, _ := strings.Cut(strings.TrimPrefix(line, "CANDIDATE"), ":")
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil || n < 1 || n > candidateCount {
				continue
			}
			current = n - 1
			if !seen[current] {
				seen[current] = true
				v.Recognized++
			}

		case strings.HasPrefix(line, "TYPE:"):
			if current >= 0 {
				v.Blocks[current].Type = strings.TrimSpace(strings.TrimPrefix(line, "TYPE:"))
			}

		case strings.HasPrefix(line, "MATCH:"):
			if current < 0 {
				continue
			}
			answer := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "MATCH:")))
			switch {
			case strings.HasPrefix(answer, "YES"):
				v.Blocks[current].Match = true
				v.Blocks[current].Valid = true
			case strings.HasPrefix(answer, "NO"):
				v.Blocks[current].Match = false
				v.Blocks[current].Valid = true
			}
			// Anything else (MAYBE, blank) leaves the block invalid.

		case strings.HasPrefix(line, "REASON:"):
			if current >= 0 {
				v.Blocks[current].Rationale = strings.TrimSpace(strings.TrimPrefix(line, "REASON:"))
			}

		case strings.HasPrefix(line, "SELECTED:"):
			current = -1
			v.Selected = parseSelection(strings.TrimPrefix(line, "SELECTED:"), candidateCount, maxSelected)

		case strings.HasPrefix(line, "SUMMARY:"):
			current = -1
			v.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		}
	}

	// A block without a well-formed MATCH line reads as an empty no-match,
	// whatever else it carried.
	for i := range v.Blocks {
		if !v.Blocks[i].Valid {
			v.Blocks[i] = Block{}
		}
	}
	return v
}

// parseSelection extracts the 1-based selection numbers, mapping them to
// 0-based indices. Out-of-range entries are discarded, duplicates keep
// their first position, and the result is cut at maxSelected.
func parseSelection(s string, candidateCount, maxSelected int) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '[' || r == ']' || r == '\t'
	})

	var selected []int
	taken := make(map[int]bool)
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSuffix(f, "."))
		if err != nil {
			continue
		}
		idx := n - 1
		if idx < 0 || idx >= candidateCount || taken[idx] {
			continue
		}
		taken[idx] = true
		selected = append(selected, idx)
		if len(selected) == maxSelected {
			break
		}
	}
	return selected
}
