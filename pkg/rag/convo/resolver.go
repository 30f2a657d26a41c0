package convo

import (
	"strings"

	"ai-filesearch-be/pkg/store"
)

// ordinalWords maps spoken ordinals and bare digits to 0-based indices.
var ordinalWords = map[string]int{
	"first": 0, "second": 1, "third": 2, "fourth": 3, "fifth": 4,
	"sixth": 5, "seventh": 6, "eighth": 7, "ninth": 8, "tenth": 9,
	"1": 0, "2": 1, "3": 2, "4": 3, "5": 4,
	"6": 5, "7": 6, "8": 7, "9": 8, "10": 9,
}

// demonstratives refer back to an already-established file rather than
// picking one by position.
var demonstratives = map[string]bool{
	"that": true, "it": true, "this": true, "these": true,
	"those": true, "them": true,
}

// ResolveReference maps a reference phrase to a 0-based index into the last
// result set. Ordinals ("the third one", "2") pick by position, "last"
// picks the final entry, demonstratives ("that", "it") pick index 0 when
// exactly one result exists, else the most-recently-referenced index.
// Resolution fails closed: an empty result set or an out-of-range ordinal
// resolves to nothing rather than clamping.
func ResolveReference(phrase string, state store.ConversationState) (int, bool) {
	n := len(state.LastResults)
	if n == 0 {
		return 0, false
	}

	tokens := strings.Fields(strings.ToLower(phrase))
	for i := range tokens {
		tokens[i] = strings.Trim(tokens[i], "\"'?!.,;:()")
	}

	for _, tok := range tokens {
		if idx, ok := ordinalWords[tok]; ok {
			if idx >= n {
				return 0, false
			}
			return idx, true
		}
	}

	for _, tok := range tokens {
		if tok == "last" {
			return n - 1, true
		}
	}

	for _, tok := range tokens {
		if !demonstratives[tok] {
			continue
		}
		if n == 1 {
			return 0, true
		}
		if state.LastReferenced >= 0 && state.LastReferenced < n {
			return state.LastReferenced, true
		}
		return 0, false
	}

	return 0, false
}
