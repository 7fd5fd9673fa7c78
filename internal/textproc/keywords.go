package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// MaxKeywords caps the extracted keyword list
const MaxKeywords = 50

// nonWord matches everything that is neither a word character nor whitespace
var nonWord = regexp.MustCompile(`[^\w\s]`)

// stopWords are never returned as keywords. Articles, conjunctions, common
// auxiliary verbs and demonstratives; tokens of three characters or fewer
// are filtered before this set is consulted, the short entries are kept for
// completeness.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "but": {}, "or": {}, "nor": {}, "yet": {},
	"is": {}, "am": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
	"have": {}, "had": {}, "does": {}, "did": {}, "doing": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "must": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"with": {}, "from": {}, "into": {}, "onto": {}, "upon": {},
	"they": {}, "them": {}, "their": {}, "there": {},
	"then": {}, "than": {}, "when": {}, "where": {}, "which": {},
	"what": {}, "while": {}, "about": {}, "also": {}, "such": {}, "each": {},
}

// ExtractKeywords derives up to 50 lowercase keywords from text, most
// frequent first. Tokens of three characters or fewer and stop words are
// discarded. Ties in frequency are broken by first occurrence in the token
// stream, so the result is fully deterministic.
func ExtractKeywords(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, token := range strings.Fields(cleaned) {
		if len(token) <= 3 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, seen := counts[token]; !seen {
			firstSeen[token] = i
		}
		counts[token]++
	}

	keywords := make([]string, 0, len(counts))
	for token := range counts {
		keywords = append(keywords, token)
	}

	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return firstSeen[keywords[i]] < firstSeen[keywords[j]]
	})

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}
