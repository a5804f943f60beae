package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/customs-invoices/internal/schema"
)

func TestBuildSystemPromptCarriesTemplate(t *testing.T) {
	tpl := schema.DefaultRegistry().Get("EIN0306306H6")
	req := InferRequest{Template: tpl, VendorID: tpl.VendorID}

	got := BuildSystemPrompt(req)
	assert.Contains(t, got, tpl.Prompt)
	assert.Contains(t, got, "Return ONLY a JSON object")
	assert.Contains(t, got, "null")
}

func TestBuildUserPromptShortTextUntruncated(t *testing.T) {
	got := BuildUserPrompt(InferRequest{Text: "  INVOICE 42  "})
	assert.Equal(t, "Invoice text:\nINVOICE 42", got)
}

func TestBuildUserPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxDocChars+500)
	got := BuildUserPrompt(InferRequest{Text: long})

	assert.True(t, strings.HasSuffix(got, "(truncated)"))
	assert.LessOrEqual(t, len(got), maxDocChars+64)
}

func TestBuildUserPromptTruncatesAtRuneBoundary(t *testing.T) {
	// land the byte cut inside a three-byte rune
	long := strings.Repeat("a", maxDocChars-1) + strings.Repeat("€", 200)
	got := BuildUserPrompt(InferRequest{Text: long})

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "(truncated)"))
}
