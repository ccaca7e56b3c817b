package services

import "testing"

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantScore    float64
		wantFeedback string
		wantParsed   bool
	}{
		{
			name:         "well formed evaluation",
			raw:          "SCORE: 83\nFEEDBACK: Strong technical answers throughout.",
			wantScore:    83,
			wantFeedback: "Strong technical answers throughout.",
			wantParsed:   true,
		},
		{
			name:         "fractional score",
			raw:          "SCORE: 72.5\nFEEDBACK: Good but short answers.",
			wantScore:    72.5,
			wantFeedback: "Good but short answers.",
			wantParsed:   true,
		},
		{
			name:         "missing feedback token keeps whole text",
			raw:          "SCORE: 90",
			wantScore:    90,
			wantFeedback: "SCORE: 90",
			wantParsed:   true,
		},
		{
			name:         "non numeric score fails open",
			raw:          "SCORE: excellent\nFEEDBACK: nice work",
			wantScore:    0,
			wantFeedback: "SCORE: excellent\nFEEDBACK: nice work",
			wantParsed:   false,
		},
		{
			name:         "free text without markers",
			raw:          "The candidate did well overall.",
			wantScore:    0,
			wantFeedback: "The candidate did well overall.",
			wantParsed:   false,
		},
		{
			name:         "gateway error blob",
			raw:          "Error generating feedback: context deadline exceeded",
			wantScore:    0,
			wantFeedback: "Error generating feedback: context deadline exceeded",
			wantParsed:   false,
		},
		{
			name:         "extra whitespace",
			raw:          "  SCORE:   64  \nFEEDBACK:   Needs more detail.  ",
			wantScore:    64,
			wantFeedback: "Needs more detail.",
			wantParsed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFeedback(tt.raw)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Feedback != tt.wantFeedback {
				t.Errorf("Feedback = %q, want %q", got.Feedback, tt.wantFeedback)
			}
			if got.Parsed != tt.wantParsed {
				t.Errorf("Parsed = %v, want %v", got.Parsed, tt.wantParsed)
			}
		})
	}
}
