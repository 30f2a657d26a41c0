package search

import (
	"strings"

	"ai-filesearch-be/pkg/store"
)

// formatGroup ties the words users say to the extensions they mean.
type formatGroup struct {
	keywords   []string
	extensions []string
}

// formatGroups is evaluated in order; the first matching keyword of a group
// contributes that group's extensions.
var formatGroups = []formatGroup{
	{[]string{"pdf", "portable document"}, []string{".pdf"}},
	{[]string{"word", "doc", ".docx", "document"}, []string{".docx", ".doc"}},
	{[]string{"excel", "xlsx", "xls", "spreadsheet", "sheet", "csv"}, []string{".xlsx", ".xls", ".csv"}},
	{[]string{"text", ".txt", "text file", "notepad"}, []string{".txt"}},
	{[]string{"python", ".py", "code", "script"}, []string{".py"}},
	{[]string{"javascript", ".js", "typescript", ".ts"}, []string{".js", ".ts"}},
	{[]string{"java", ".java"}, []string{".java"}},
	{[]string{"code files", "source"}, []string{".py", ".js", ".ts", ".java", ".cpp", ".c"}},
	{[]string{"markdown", ".md", "notes"}, []string{".md", ".txt"}},
	{[]string{"image", "photo", "picture", "jpg", "png", "screenshot"}, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
	{[]string{"powerpoint", "ppt", "presentation", "slides"}, []string{".pptx", ".ppt"}},
	{[]string{"zip", "archive", "compressed"}, []string{".zip", ".rar", ".7z"}},
	{[]string{"json", ".json", "config"}, []string{".json", ".yaml", ".yml", ".ini", ".conf"}},
}

// DetectFormats returns the file extensions implied by format words in the
// utterance ("as a PDF", "the excel sheet"), deduplicated in group order.
// Empty means the user expressed no format preference.
func DetectFormats(utterance string) []string {
	lower := strings.ToLower(utterance)

	var detected []string
	seen := make(map[string]bool)
	for _, group := range formatGroups {
		for _, keyword := range group.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			for _, ext := range group.extensions {
				if !seen[ext] {
					seen[ext] = true
					detected = append(detected, ext)
				}
			}
			break
		}
	}
	return detected
}

// reorderByFormat stably partitions candidates so those matching a
// preferred extension come first. Scores are left untouched; the
// preference only breaks the presentation order, it never hides files.
func reorderByFormat(candidates []store.Candidate, formats []string) []store.Candidate {
	preferred := make(map[string]bool, len(formats))
	for _, ext := range formats {
		preferred[ext] = true
	}

	matching := make([]store.Candidate, 0, len(candidates))
	var rest []store.Candidate
	for _, c := range candidates {
		if preferred[c.Ext()] {
			matching = append(matching, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(matching, rest...)
}
