package summarize

const (
	// DefaultChunkChars is the largest chunk handed to an engine in one call.
	DefaultChunkChars = 3000

	// minAlignedChunk keeps sentence alignment from producing tiny chunks.
	minAlignedChunk = 200
)

// ChunkText splits text into consecutive pieces of at most maxChars characters.
// Each window is cut after its last '.' when that leaves more than 200
// characters in the chunk; otherwise it is cut at the window edge.
// Joining the returned chunks in order yields text exactly.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkChars
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); {
		end := min(start+maxChars, len(runes))
		if dot := lastDot(runes[start:end]); dot != -1 && dot+1 > minAlignedChunk {
			end = start + dot + 1
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end
	}
	return chunks
}

func lastDot(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == '.' {
			return i
		}
	}
	return -1
}
