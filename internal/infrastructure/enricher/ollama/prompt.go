package ollama

func buildExtractionPrompt(text string) string {
	const maxSnippet = 4000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return `You are a data entry extractor.
Read the input and return a strict flat JSON object mapping field names to string values.
Use field names like Name, Phone, Email, City, Company, Product, Amount, Quantity when they apply,
and invent a short descriptive field name for anything else worth capturing.
Omit fields you cannot find. No markdown, no nested objects, no extra commentary.

Input:
` + snippet
}
