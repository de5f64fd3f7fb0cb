package usecase

import "github.com/user/scrapeflow/internal/entity"

// estimateTokens is a cheap length-based token estimate: characters divided
// by four, rounded up. Good enough to keep extraction calls under the
// model's effective context limit without pulling in a tokenizer.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// SplitIntoChunks partitions pages into token-budgeted groups by greedy
// bin-packing in input order. Costs are measured over the same serialized
// blocks the extractor sends, so the budget tracks real request size.
//
// The budget is a soft target, not a hard slice boundary: a single page
// whose own cost exceeds maxTokens is placed alone in its own chunk, never
// dropped and never split further. The concatenation of all chunks, in
// order, reconstructs the input exactly. Empty input yields zero chunks.
func SplitIntoChunks(pages []*entity.ScrapedPage, maxTokens int) [][]*entity.ScrapedPage {
	var chunks [][]*entity.ScrapedPage
	var current []*entity.ScrapedPage
	currentTokens := 0

	for _, page := range pages {
		cost := estimateTokens(serializePage(page))
		if len(current) > 0 && currentTokens+cost > maxTokens {
			chunks = append(chunks, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, page)
		currentTokens += cost
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
