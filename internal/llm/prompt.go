package llm

import (
	"strings"
	"unicode/utf8"
)

// maxDocChars caps how much extracted text travels in one request.
const maxDocChars = 12000

// BuildSystemPrompt composes the system message: the model fills the vendor's
// JSON shape from the document text, nothing else.
func BuildSystemPrompt(req InferRequest) string {
	parts := []string{
		"You are a customs invoice parser. Return ONLY a JSON object with exactly this shape, no markdown and no extra keys:",
		req.Template.Prompt,
		"Use null for any field that is not visible in the document.",
		"Keep numeric fields numeric; do not invent values.",
	}
	return strings.Join(parts, "\n")
}

// BuildUserPrompt packages the extracted document text, truncated to the
// request budget.
func BuildUserPrompt(req InferRequest) string {
	text := strings.TrimSpace(req.Text)

	var b strings.Builder
	b.WriteString("Invoice text:\n")
	if len(text) > maxDocChars {
		b.WriteString(truncateRunes(text, maxDocChars))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}

// truncateRunes cuts s at a rune boundary at or before max bytes.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
