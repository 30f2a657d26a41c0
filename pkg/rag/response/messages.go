package response

// Canned reply text. Every chat rule gets its own phrasing so tests (and
// users) can tell the outcome categories apart.
const (
	msgNoMatches = "I couldn't find files matching your request. Try being more specific or check that files are indexed."

	msgUnavailable = "File search is temporarily unavailable. Please try again in a moment."

	msgHelp = "I'm a file search assistant. Try:\n" +
		"• \"find my resume\"\n" +
		"• \"budget reports\"\n" +
		"• \"meeting notes team C\"\n" +
		"• \"photos from trip\""

	msgSmalltalk = "Hi! I'm your file search assistant. Ask me to find a file, e.g. \"find my resume\" or \"budget reports\"."

	msgPhysicalObject = "I can only search for files on your drive, not physical items. Try asking for a document, like \"find my resume\"."

	msgUnrelatedTopic = "I'm just a file search assistant, so I can't help with that. Ask me to find a file instead."

	msgFallbackChat = "Please search for a file."

	msgLostReference = "I'm not sure which file you mean. Run a search first, then ask about a result by position (e.g. \"summarize the first one\")."
)

// Reply templates for the search outcomes.
const (
	fmtExactMatch          = "I found exactly what you're looking for!\n\n📄 %s"
	fmtMatchHeader         = "I found %d file(s) matching your request:\n\n"
	fmtLowConfidenceHeader = "I found %d file(s) that might match your request (lower confidence):\n\n"
	fmtListItem            = "%d. 📄 %s\n"
	fmtAnalysisHeader      = "Here's what I have on 📄 %s:\n\n"
	fmtNoPreview           = "I found 📄 %s, but there's no text preview available for it."
)
