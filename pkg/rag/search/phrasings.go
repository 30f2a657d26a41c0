package search

import (
	"fmt"
	"strings"

	"ai-filesearch-be/pkg/llm"
)

// phrasingPrefix is the line marker of the phrasing wire protocol. The
// model is told to answer one "PHRASING_n: keywords" line per phrasing.
const phrasingPrefix = "PHRASING_"

// ParsePhrasings extracts phrasings from a model answer. The count always
// comes back exactly p: extra lines are truncated, shortfalls are padded
// with the fallback query, so a rambling or lazy model never changes the
// fan-out width.
func ParsePhrasings(answer string, p int, fallback string) []string {
	var phrasings []string
	for _, line := range strings.Split(llm.CleanOutput(answer), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, phrasingPrefix) {
			continue
		}
		_, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		phrasing := strings.Trim(strings.TrimSpace(rest), "\"[]")
		if phrasing == "" {
			continue
		}
		phrasings = append(phrasings, phrasing)
		if len(phrasings) == p {
			break
		}
	}
	return padPhrasings(phrasings, p, fallback)
}

// padPhrasings tops the slice up to p entries with the fallback query.
func padPhrasings(phrasings []string, p int, fallback string) []string {
	for len(phrasings) < p {
		phrasings = append(phrasings, fallback)
	}
	return phrasings
}

func buildPhrasingPrompt(utterance string, p int) string {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "You are a query expansion expert. Generate %d DIFFERENT phrasings of this search query.\n\n", p)
	prompt.WriteString("Original query: \"")
	prompt.WriteString(utterance)
	prompt.WriteString("\"\n\n")
	prompt.WriteString("IMPORTANT:\n")
	prompt.WriteString("1. Each phrasing should use DIFFERENT synonyms and keywords\n")
	prompt.WriteString("2. Capture different aspects/interpretations of what the user wants\n")
	prompt.WriteString("3. Remove filler words (my, the, a, etc.)\n")
	prompt.WriteString("4. Return space-separated keywords for each phrasing\n\n")
	prompt.WriteString("Examples:\n\n")
	prompt.WriteString("Input: \"find my resume\"\n")
	prompt.WriteString("PHRASING_1: resume professional experience\n")
	prompt.WriteString("PHRASING_2: CV curriculum vitae\n")
	prompt.WriteString("PHRASING_3: employment history work background\n")
	prompt.WriteString("PHRASING_4: career profile job application document\n\n")
	prompt.WriteString("Input: \"show travel documents\"\n")
	prompt.WriteString("PHRASING_1: travel documents passport\n")
	prompt.WriteString("PHRASING_2: visa immigration papers\n")
	prompt.WriteString("PHRASING_3: i94 i-94 arrival departure\n")
	prompt.WriteString("PHRASING_4: boarding pass flight ticket travel\n\n")
	fmt.Fprintf(&prompt, "Now generate %d phrasings for: \"%s\"\n\n", p, utterance)
	prompt.WriteString("Respond EXACTLY in this format:\n")
	for i := 1; i <= p; i++ {
		fmt.Fprintf(&prompt, "PHRASING_%d: [keywords]\n", i)
	}
	return prompt.String()
}
