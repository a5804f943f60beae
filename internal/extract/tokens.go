package extract

// promptOverhead accounts for the template and instruction text that travels
// with the extracted document in every inference request.
const promptOverhead = 50

// EstimateTokens approximates the model token count of a text. There is no
// exact tokenizer here; four bytes per token is close enough for the prompt
// budgeting this feeds.
func EstimateTokens(text string) int {
	if text == "" {
		return promptOverhead
	}
	return len(text)/4 + promptOverhead
}
