package intent

import "strings"

// Vocabulary behind the fast classification rules. Matching is always done
// on the lowercased utterance; multi-word entries are matched as substrings,
// single words as whole tokens.

// analysisVerbs signal a follow-up about files already on the table
// ("summarize that one", "what's in the second file").
var analysisVerbs = []string{
	"summarize", "summary", "read", "what's in", "what is in",
	"analyze", "tell me about", "explain", "content", "details",
}

// smalltalkSet is matched against the whole normalized utterance.
var smalltalkSet = map[string]bool{
	"hi":             true,
	"hello":          true,
	"hey":            true,
	"yo":             true,
	"good morning":   true,
	"good afternoon": true,
	"good evening":   true,
	"thanks":         true,
	"thank you":      true,
	"thx":            true,
	"ok":             true,
	"okay":           true,
	"bye":            true,
	"goodbye":        true,
	"how are you":    true,
}

// helpSet triggers the capabilities reply.
var helpSet = map[string]bool{
	"help":             true,
	"?":                true,
	"how":              true,
	"what can you do":  true,
	"what can you do?": true,
}

// physicalObjects are things people look for that are not files. Asking
// "where is the toilet paper" should never hit the index.
var physicalObjects = []string{
	"toilet paper", "stapler", "keys", "car keys", "charger", "phone charger",
	"wallet", "glasses", "umbrella", "remote", "scissors", "headphones",
	"water bottle", "coffee mug", "backpack",
}

// searchVerbs are the verbs of a retrieval request.
var searchVerbs = []string{
	"find", "search", "locate", "look for", "looking for", "show", "show me",
	"get", "where is", "where are", "open", "need", "retrieve", "pull up",
}

// fileNouns are the things a retrieval request asks for. Includes the
// document categories the synonym table knows about.
var fileNouns = []string{
	"file", "files", "document", "documents", "doc", "docs", "pdf", "pdfs",
	"resume", "cv", "report", "reports", "invoice", "invoices", "receipt",
	"receipts", "spreadsheet", "spreadsheets", "presentation", "slides",
	"notes", "note", "photo", "photos", "picture", "pictures", "image",
	"images", "screenshot", "screenshots", "contract", "agreement", "budget",
	"statement", "statements", "passport", "visa", "itinerary", "folder",
	"tax", "taxes", "paper", "papers", "letter", "essay", "thesis", "manual",
}

// unrelatedTopics are conversation subjects with no plausible file behind
// them; they short-circuit to chat before the model fallback fires.
var unrelatedTopics = []string{
	"weather", "joke", "jokes", "news", "recipe", "recipes", "sports",
	"movie", "movies", "music", "song", "time is it", "date today",
	"stock price", "translate", "math problem",
}

// fileExtensions mark a token as file-like for the loosened fallback rule
// ("open report_final.docx").
var fileExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".csv", ".txt", ".md", ".ppt",
	".pptx", ".jpg", ".jpeg", ".png", ".gif", ".zip", ".json", ".yaml",
	".yml", ".py", ".js", ".ts", ".java", ".go",
}

// normalize lowercases and collapses whitespace; trailing punctuation is
// kept only for the exact-set lookups that expect it ("what can you do?").
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// stripPunct removes common trailing punctuation from a normalized
// utterance so "hello!" still hits the smalltalk set.
func stripPunct(s string) string {
	return strings.TrimRight(s, "!.,;:")
}

// containsAny reports whether any entry matches the utterance: multi-word
// entries as substrings, single words as whole tokens.
func containsAny(normalized string, tokens []string, entries []string) (string, bool) {
	for _, e := range entries {
		if strings.Contains(e, " ") || strings.Contains(e, "'") {
			if strings.Contains(normalized, e) {
				return e, true
			}
			continue
		}
		for _, tok := range tokens {
			if trimToken(tok) == e {
				return e, true
			}
		}
	}
	return "", false
}

// hasFileExtension reports whether any token carries a known extension.
func hasFileExtension(tokens []string) bool {
	for _, tok := range tokens {
		t := trimToken(tok)
		for _, ext := range fileExtensions {
			if strings.HasSuffix(t, ext) {
				return true
			}
		}
	}
	return false
}

func trimToken(tok string) string {
	return strings.Trim(tok, "\"'?!.,;:()[]")
}
