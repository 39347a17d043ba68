package utils

import "strings"

// SplitText splits raw document text into overlapping windows of approximately
// 'chunkSize' characters. The 'overlap' keeps context intact across chunk
// boundaries. This is a simple character-based splitter; scraped government
// documents mix Indonesian and English prose with tables, so a tokenizer-aware
// splitter buys little for retrieval quality here.
func SplitText(text string, chunkSize int, overlap int) []string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\r", ""))
	if cleaned == "" {
		return nil
	}

	runes := []rune(cleaned)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{cleaned}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}

// CleanText normalizes extracted text: strips control characters and collapses
// runs of whitespace into single spaces.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// EstimateTokens gives a rough token count for context budget math.
// Approx 4 characters per token.
func EstimateTokens(text string) int {
	return len([]rune(text)) / 4
}
