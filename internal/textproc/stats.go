package textproc

import (
	"regexp"
	"strings"
)

// paragraphBreak matches blank-line separators between paragraphs
var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// TextStats summarises the basic shape of a document
type TextStats struct {
	Words      int
	Chars      int
	Sentences  int
	Paragraphs int
}

// Measure computes word, character, sentence and paragraph counts from raw
// text. Sentences are counted as runs of terminal punctuation, paragraphs
// as blank-line separated blocks.
func Measure(text string) TextStats {
	stats := TextStats{
		Words: len(strings.Fields(text)),
		Chars: len(text),
	}

	stats.Sentences = len(sentenceEnd.FindAllString(text, -1))

	for _, block := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			stats.Paragraphs++
		}
	}

	return stats
}
