package utils

// SplitText chunks text into overlapping rune windows of at most chunkSize.
// The overlap carries context across chunk boundaries so a sentence cut in
// half still embeds meaningfully; an overlap at or above chunkSize falls
// back to disjoint windows.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
