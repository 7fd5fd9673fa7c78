package domain

import "testing"

func TestRiskLevelForScore(t *testing.T) {
	// The mapping must hold for every valid score
	for score := 0; score <= 100; score++ {
		got := RiskLevelForScore(score)

		var want RiskLevel
		switch {
		case score >= 80:
			want = RiskLow
		case score >= 60:
			want = RiskMedium
		default:
			want = RiskHigh
		}

		if got != want {
			t.Errorf("score %d: expected %s, got %s", score, want, got)
		}
	}
}

func TestRiskLevelForScore_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskLow},
		{80, RiskLow},
		{79, RiskMedium},
		{60, RiskMedium},
		{59, RiskHigh},
		{0, RiskHigh},
	}

	for _, c := range cases {
		if got := RiskLevelForScore(c.score); got != c.want {
			t.Errorf("score %d: expected %s, got %s", c.score, c.want, got)
		}
	}
}

func TestClampScore(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{140, 100},
	}

	for _, c := range cases {
		if got := ClampScore(c.in); got != c.want {
			t.Errorf("ClampScore(%d): expected %d, got %d", c.in, c.want, got)
		}
	}
}

func TestAnalysisOptions_WithDefaults(t *testing.T) {
	opts := AnalysisOptions{}.WithDefaults()
	if opts.TopK != 10 {
		t.Errorf("expected TopK 10, got %d", opts.TopK)
	}
	if opts.MaxChunkSize != 1000 {
		t.Errorf("expected MaxChunkSize 1000, got %d", opts.MaxChunkSize)
	}
	if opts.ChunkOverlap != 200 {
		t.Errorf("expected ChunkOverlap 200, got %d", opts.ChunkOverlap)
	}

	// Explicit values survive
	opts = AnalysisOptions{TopK: 6, MaxChunkSize: 500, ChunkOverlap: 50}.WithDefaults()
	if opts.TopK != 6 || opts.MaxChunkSize != 500 || opts.ChunkOverlap != 50 {
		t.Errorf("explicit options were overwritten: %+v", opts)
	}
}
