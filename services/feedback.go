package services

import (
	"strconv"
	"strings"
)

// ParsedFeedback is the result of reading the SCORE/FEEDBACK markers out of
// a final interview evaluation. When Parsed is false the raw text has been
// kept whole as Feedback and Score is 0, which is distinguishable from a
// genuine zero.
type ParsedFeedback struct {
	Score    float64
	Feedback string
	Parsed   bool
}

// ParseFeedback splits the evaluation on the first FEEDBACK: marker and
// reads the score from the part before it. Any malformed input degrades to
// the raw text so the user always sees something.
func ParseFeedback(raw string) ParsedFeedback {
	parts := strings.SplitN(raw, "FEEDBACK:", 2)

	scorePart := strings.TrimSpace(strings.ReplaceAll(parts[0], "SCORE:", ""))
	score, err := strconv.ParseFloat(scorePart, 64)
	if err != nil {
		return ParsedFeedback{Score: 0, Feedback: raw, Parsed: false}
	}

	feedback := raw
	if len(parts) > 1 {
		feedback = strings.TrimSpace(parts[1])
	}

	return ParsedFeedback{Score: score, Feedback: feedback, Parsed: true}
}
