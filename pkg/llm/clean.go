package llm

import "strings"

// Instruction-tuned models occasionally leak template tokens into their
// output; downstream line parsers must never see them.
var specialTokens = []string{"<s>", "</s>", "[INST]", "[/INST]", "<|im_start|>", "<|im_end|>"}

// CleanOutput strips special tokens and surrounding markdown fences from a
// raw model response.
func CleanOutput(s string) string {
	for _, tok := range specialTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.TrimSpace(s)

	// Drop a wrapping ``` fence, keeping inner content intact.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}
