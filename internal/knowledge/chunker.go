package knowledge

// Chunk is a bounded slice of one file's text, the unit of similarity
// indexing. File and Index are provenance metadata carried through
// persistence and retrieval.
type Chunk struct {
	File    string
	Index   int
	Content string
}

// SplitText splits text into chunks of at most size runes with the given
// overlap between consecutive chunks. Where possible a chunk ends on a line
// boundary so indexed excerpts stay readable.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		// Prefer breaking after the last newline inside the window, as long
		// as that keeps the chunk reasonably full.
		cut := end
		for i := end - 1; i > start+size/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[start:cut]))
		// A large overlap can pull the next start at or before the current
		// one when the cut landed near the window midpoint. Overlap from the
		// full window instead so every iteration advances.
		next := cut - overlap
		if next <= start {
			next = end - overlap
		}
		start = next
	}
	return chunks
}

// ChunkFiles splits every file into chunks with per-chunk provenance,
// visiting files in the order given.
func ChunkFiles(paths []string, files map[string]string, size, overlap int) []Chunk {
	var chunks []Chunk
	for _, p := range paths {
		for i, c := range SplitText(files[p], size, overlap) {
			chunks = append(chunks, Chunk{File: p, Index: i, Content: c})
		}
	}
	return chunks
}
