package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/textproc"
)

// patternRule is one language-pattern check: a regex, a per-match penalty
// and the issue/suggestion text emitted when it matches.
type patternRule struct {
	name     string
	pattern  *regexp.Regexp
	severity domain.Severity
	penalty  int
	title    string
	fix      string
}

// maxPatternPenalty caps the deduction of a single pattern rule
const maxPatternPenalty = 20

var patternRules = []patternRule{
	{
		name:     "archaic_language",
		pattern:  regexp.MustCompile(`(?i)\b(shall|hereby|whereas|heretofore|hereinafter|thereof|therein|hereunder|forthwith)\b`),
		severity: domain.SeverityLow,
		penalty:  2,
		title:    "Archaic legal language",
		fix:      "Replace archaic terms such as 'shall' and 'hereby' with plain language equivalents",
	},
	{
		name:     "repeated_punctuation",
		pattern:  regexp.MustCompile(`\.{2,}`),
		severity: domain.SeverityMedium,
		penalty:  5,
		title:    "Malformed punctuation",
		fix:      "Remove repeated periods and check sentence boundaries",
	},
}

// sectionRule defines a required contract section and the patterns that
// count as evidence it is present.
type sectionRule struct {
	section  string
	patterns []*regexp.Regexp
}

// missingSectionPenalty is the flat deduction per absent required section
const missingSectionPenalty = 10

var sectionRules = []sectionRule{
	{
		section: "parties",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bpart(y|ies)\b`),
			regexp.MustCompile(`(?i)\bbetween\b`),
			regexp.MustCompile(`(?i)\bundersigned\b`),
		},
	},
	{
		section: "term",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bterm\b`),
			regexp.MustCompile(`(?i)\bduration\b`),
			regexp.MustCompile(`(?i)\beffective\s+date\b`),
		},
	},
	{
		section: "termination",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bterminat(e|es|ed|ion)\b`),
			regexp.MustCompile(`(?i)\bcancel(lation)?\b`),
			regexp.MustCompile(`(?i)\bexpir(e|es|ation|y)\b`),
		},
	},
}

// Policy coverage: per-keyword deduction and its cap, and how many missing
// terms are named in the issue text.
const (
	coveragePenaltyPerTerm = 3
	maxCoveragePenalty     = 15
	namedMissingTerms      = 3
	coverageKeywordsUsed   = 10
)

// RuleAnalyzer performs deterministic pattern, structure and
// policy-coverage scoring. It is a total function over its inputs: any
// text and any policy set produce a valid result, it never fails.
type RuleAnalyzer struct{}

// NewRuleAnalyzer creates a new RuleAnalyzer
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

// Analyze scores documentText against the fixed rule families and the
// given policies. The score starts at 100 and is reduced by each finding,
// then clamped to [0,100].
func (a *RuleAnalyzer) Analyze(documentText string, policies []*domain.Policy) *analysisResult {
	score := 100
	var issues []domain.Issue
	var suggestions []domain.Suggestion

	// Language-pattern rules
	for _, rule := range patternRules {
		count := len(rule.pattern.FindAllString(documentText, -1))
		if count == 0 {
			continue
		}

		penalty := count * rule.penalty
		if penalty > maxPatternPenalty {
			penalty = maxPatternPenalty
		}
		score -= penalty

		issues = append(issues, domain.Issue{
			Type:        rule.name,
			Severity:    rule.severity,
			Title:       rule.title,
			Description: fmt.Sprintf("%s: %d occurrence(s) found", rule.title, count),
		})
		suggestions = append(suggestions, domain.Suggestion{
			Type:        rule.name,
			Priority:    rule.severity,
			Title:       rule.title,
			Description: rule.fix,
		})
	}

	// Structural-completeness rules
	for _, rule := range sectionRules {
		if sectionPresent(documentText, rule) {
			continue
		}
		score -= missingSectionPenalty
		issues = append(issues, domain.Issue{
			Type:        "missing_section",
			Severity:    domain.SeverityHigh,
			Title:       fmt.Sprintf("Missing %s section", rule.section),
			Description: fmt.Sprintf("No %s-related language was detected in the document", rule.section),
		})
	}

	// Policy-coverage rule
	if missing := uncoveredPolicyTerms(documentText, policies); len(missing) > 0 {
		penalty := len(missing) * coveragePenaltyPerTerm
		if penalty > maxCoveragePenalty {
			penalty = maxCoveragePenalty
		}
		score -= penalty

		named := missing
		if len(named) > namedMissingTerms {
			named = named[:namedMissingTerms]
		}
		issues = append(issues, domain.Issue{
			Type:        "policy_coverage",
			Severity:    domain.SeverityHigh,
			Title:       "Policy keywords not addressed",
			Description: fmt.Sprintf("%d policy keyword(s) are not covered by the document, e.g.: %s", len(missing), strings.Join(named, ", ")),
		})
		suggestions = append(suggestions, domain.Suggestion{
			Type:        "policy_coverage",
			Priority:    domain.SeverityHigh,
			Title:       "Address policy terminology",
			Description: fmt.Sprintf("Add language covering: %s", strings.Join(named, ", ")),
		})
	}

	score = domain.ClampScore(score)
	textStats := textproc.Measure(documentText)

	return &analysisResult{
		Score:       score,
		RiskLevel:   domain.RiskLevelForScore(score),
		Issues:      issues,
		Suggestions: capSuggestions(suggestions),
		Stats: domain.AnalysisStats{
			WordCount:      textStats.Words,
			CharCount:      textStats.Chars,
			SentenceCount:  textStats.Sentences,
			ParagraphCount: textStats.Paragraphs,
			Tier:           domain.TierBasic,
		},
	}
}

// sectionPresent reports whether any of the section's detection patterns
// match anywhere in the text
func sectionPresent(text string, rule sectionRule) bool {
	for _, p := range rule.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// uncoveredPolicyTerms returns the policy keywords (first ten per policy)
// with no covering document keyword. A document keyword covers a policy
// keyword when either contains the other as a substring.
func uncoveredPolicyTerms(documentText string, policies []*domain.Policy) []string {
	if len(policies) == 0 {
		return nil
	}

	docKeywords := textproc.ExtractKeywords(documentText)
	var missing []string

	for _, policy := range policies {
		keywords := policy.Keywords
		if len(keywords) > coverageKeywordsUsed {
			keywords = keywords[:coverageKeywordsUsed]
		}

		for _, pk := range keywords {
			covered := false
			for _, dk := range docKeywords {
				if strings.Contains(dk, pk) || strings.Contains(pk, dk) {
					covered = true
					break
				}
			}
			if !covered {
				missing = append(missing, pk)
			}
		}
	}

	return missing
}

// capSuggestions truncates a suggestion list to the report limit
func capSuggestions(suggestions []domain.Suggestion) []domain.Suggestion {
	if len(suggestions) > domain.MaxSuggestions {
		return suggestions[:domain.MaxSuggestions]
	}
	return suggestions
}
