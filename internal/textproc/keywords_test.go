package textproc

import (
	"strings"
	"testing"
)

func TestExtractKeywords_FrequencyOrder(t *testing.T) {
	text := "payment payment payment termination termination liability"

	keywords := ExtractKeywords(text)
	want := []string{"payment", "termination", "liability"}

	if len(keywords) != len(want) {
		t.Fatalf("expected %d keywords, got %d: %v", len(want), len(keywords), keywords)
	}
	for i, w := range want {
		if keywords[i] != w {
			t.Errorf("position %d: expected %q, got %q", i, w, keywords[i])
		}
	}
}

func TestExtractKeywords_TieBreakByFirstOccurrence(t *testing.T) {
	// zulu and alpha both occur twice; zulu appears first in the stream
	text := "zulu alpha zulu alpha"

	keywords := ExtractKeywords(text)
	if len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %v", keywords)
	}
	if keywords[0] != "zulu" || keywords[1] != "alpha" {
		t.Errorf("expected first-occurrence tie-break [zulu alpha], got %v", keywords)
	}
}

func TestExtractKeywords_FiltersShortAndStopWords(t *testing.T) {
	text := "the and with from cat dog contract contract"

	keywords := ExtractKeywords(text)
	for _, kw := range keywords {
		if len(kw) <= 3 {
			t.Errorf("keyword %q is too short", kw)
		}
		if _, stop := stopWords[kw]; stop {
			t.Errorf("keyword %q is a stop word", kw)
		}
	}
	if len(keywords) != 1 || keywords[0] != "contract" {
		t.Errorf("expected [contract], got %v", keywords)
	}
}

func TestExtractKeywords_Lowercases(t *testing.T) {
	keywords := ExtractKeywords("TERMINATION Termination termination")
	if len(keywords) != 1 || keywords[0] != "termination" {
		t.Errorf("expected single lowercase keyword, got %v", keywords)
	}
}

func TestExtractKeywords_StripsPunctuation(t *testing.T) {
	keywords := ExtractKeywords("liability, liability; liability!")
	if len(keywords) != 1 || keywords[0] != "liability" {
		t.Errorf("expected punctuation stripped, got %v", keywords)
	}
}

func TestExtractKeywords_CapsAtFifty(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		// Unique tokens longer than three chars
		sb.WriteString("keyword")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteByte(byte('a' + (i/26)%26))
		sb.WriteString(" ")
	}

	keywords := ExtractKeywords(sb.String())
	if len(keywords) > MaxKeywords {
		t.Errorf("expected at most %d keywords, got %d", MaxKeywords, len(keywords))
	}
}

func TestExtractKeywords_Idempotent(t *testing.T) {
	text := "The service provider indemnifies the customer against liability claims arising from negligence. Termination requires written notice."

	first := ExtractKeywords(text)
	second := ExtractKeywords(text)

	if len(first) != len(second) {
		t.Fatalf("keyword counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("keyword %d differs between runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	if keywords := ExtractKeywords(""); len(keywords) != 0 {
		t.Errorf("expected no keywords for empty text, got %v", keywords)
	}
}
