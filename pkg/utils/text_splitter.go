package utils

// PageText is one page of extracted document text, 1-indexed.
type PageText struct {
	Page int
	Text string
}

// Chunk is a slice of document text together with the page it starts on.
type Chunk struct {
	Text string
	Page int
}

// SplitText splits a long string into chunks of approximately 'chunkSize' characters.
// It includes an 'overlap' to preserve context at boundaries.
// This is a simple character-based splitter, not a tokenizer-aware one.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

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

// SplitPages splits per-page document text into overlapping chunks, keeping
// track of the page each chunk came from so answers can cite their location.
// Empty pages are skipped; page numbers pass through as given.
func SplitPages(pages []PageText, chunkSize int, overlap int) []Chunk {
	var chunks []Chunk
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		for _, text := range SplitText(p.Text, chunkSize, overlap) {
			chunks = append(chunks, Chunk{Text: text, Page: p.Page})
		}
	}
	return chunks
}
