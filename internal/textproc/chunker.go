// Package textproc provides the pure text processing shared by policy
// ingestion and document analysis: sentence-aware chunking and
// frequency-based keyword extraction. Everything here is deterministic
// and free of side effects.
package textproc

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxChunkSize is the maximum characters per chunk
	DefaultMaxChunkSize = 1000

	// DefaultOverlap is the character overlap between consecutive chunks
	DefaultOverlap = 200

	// minChunkLength is the trimmed length below which a chunk is dropped
	minChunkLength = 50
)

// sentenceEnd matches runs of sentence-terminal punctuation
var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Chunk splits text into ordered, overlapping fragments of at most maxSize
// characters, breaking at sentence boundaries.
//
// Sentences are accumulated into a buffer; when the next sentence would push
// the buffer past maxSize the buffer is flushed and the next one is seeded
// with the trailing overlap/10 words of the flushed chunk. A single sentence
// longer than maxSize is not split further - it becomes its own oversized
// chunk. Chunks whose trimmed length is at most 50 characters are dropped.
func Chunk(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []string
	current := ""

	for _, raw := range sentenceEnd.Split(text, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		sentence += "."

		switch {
		case current == "":
			current = sentence
		case len(current)+len(sentence)+1 > maxSize:
			chunks = append(chunks, current)
			if tail := overlapTail(current, overlap); tail != "" {
				current = tail + " " + sentence
			} else {
				current = sentence
			}
		default:
			current += " " + sentence
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	filtered := chunks[:0]
	for _, c := range chunks {
		if len(strings.TrimSpace(c)) > minChunkLength {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// overlapTail returns the trailing overlap/10 whitespace-delimited words of
// a flushed chunk, used to seed the next one.
func overlapTail(chunk string, overlap int) string {
	n := overlap / 10
	if n <= 0 {
		return ""
	}
	words := strings.Fields(chunk)
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}
