package expand

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
)

// Table maps a category keyword to a space-separated synonym string. A
// category fires when its key occurs anywhere in the lowercased utterance.
type Table map[string]string

// DefaultTable returns the built-in category synonyms. These cover the
// document categories users ask for most; critical mappings like
// resume -> CV must stay available even when the model is down.
func DefaultTable() Table {
	return Table{
		// Employment / career documents
		"resume":          "CV curriculum vitae professional experience work history employment history career profile job application employment record",
		"cv":              "resume curriculum vitae professional experience work history employment history career profile job application employment record",
		"job":             "resume CV employment career application offer letter position role hire hiring work",
		"job application": "resume CV cover letter employment application career position offer",
		"job offer":       "employment offer acceptance letter position role hire contract negotiation",
		"cover letter":    "job application resume CV application letter employment",
		"employment":      "job resume CV work career employment history position",

		// Travel documents
		"travel":   "passport visa i94 i-94 immigration arrival departure boarding pass flight ticket travel authorization",
		"passport": "travel visa i94 immigration documents travel",
		"visa":     "travel passport i94 immigration documents",
		"i94":      "travel passport visa immigration arrival departure i-94 form travel documents",

		// Financial documents
		"budget":    "financial report expenses revenue costs spending finance accounting spreadsheet",
		"financial": "budget expenses revenue costs spending accounting statements report",
		"tax":       "taxes income revenue deduction IRS W2 1040 financial return filing",
		"invoice":   "bill receipt payment charge financial statement transaction",

		// Legal documents
		"contract": "agreement legal document terms conditions signature",

		// Meeting notes
		"meeting": "notes minutes agenda discussion call conference recording transcript",
		"notes":   "meeting minutes documentation memo records discussion",

		// Reports and general documents
		"report":   "analysis summary findings conclusion document paper",
		"document": "file paper report memo record letter",
	}
}

// LoadTable reads a category->synonyms JSON object from path and merges it
// over the defaults, so a deployment can add or override categories without
// losing the built-ins. An empty path returns the defaults unchanged.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var overrides map[string]string
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, err
	}
	for key, synonyms := range overrides {
		table[strings.ToLower(key)] = synonyms
	}
	return table, nil
}

// Lookup returns the synonym terms of every category whose key occurs in
// the utterance. Multi-category utterances ("budget meeting") collect from
// each matching entry; order follows the match order in the utterance.
func (t Table) Lookup(utterance string) []string {
	lower := strings.ToLower(utterance)

	type match struct {
		pos      int
		key      string
		synonyms string
	}
	var matches []match
	for key, synonyms := range t {
		if idx := strings.Index(lower, key); idx >= 0 {
			matches = append(matches, match{pos: idx, key: key, synonyms: synonyms})
		}
	}
	// Map iteration is randomized; anchor on utterance position (then key)
	// so the expansion is deterministic for a given utterance.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].pos != matches[j].pos {
			return matches[i].pos < matches[j].pos
		}
		return matches[i].key < matches[j].key
	})

	var terms []string
	for _, m := range matches {
		terms = append(terms, strings.Fields(m.synonyms)...)
	}
	return terms
}
