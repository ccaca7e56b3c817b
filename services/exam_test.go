package services

import (
	"strings"
	"testing"
)

const validExamJSON = `{
	"questions": [
		{
			"question": "Which keyword starts a goroutine?",
			"options": ["go", "run", "async", "spawn"],
			"correct_answer": "A",
			"explanation": "The go statement starts a new goroutine."
		},
		{
			"question": "What does a nil map read return?",
			"options": ["panic", "zero value", "error", "undefined"],
			"correct_answer": "b",
			"explanation": "Reading a nil map yields the zero value."
		}
	]
}`

func TestParseExamQuestions(t *testing.T) {
	questions, err := ParseExamQuestions(validExamJSON)
	if err != nil {
		t.Fatalf("ParseExamQuestions() error = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(questions))
	}

	first := questions[0]
	if first.Text != "Which keyword starts a goroutine?" {
		t.Errorf("Text = %q", first.Text)
	}
	if first.OptionA != "go" || first.OptionD != "spawn" {
		t.Errorf("options = %q..%q", first.OptionA, first.OptionD)
	}
	if first.CorrectOption != "A" {
		t.Errorf("CorrectOption = %q, want A", first.CorrectOption)
	}

	// Lowercase answers are normalized
	if questions[1].CorrectOption != "B" {
		t.Errorf("CorrectOption = %q, want B", questions[1].CorrectOption)
	}
}

func TestParseExamQuestionsStripsFences(t *testing.T) {
	fenced := "```json\n" + validExamJSON + "\n```"
	questions, err := ParseExamQuestions(fenced)
	if err != nil {
		t.Fatalf("ParseExamQuestions() error = %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("question count = %d, want 2", len(questions))
	}
}

func TestParseExamQuestionsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "not json",
			content: "Sorry, I cannot generate questions right now.",
			wantErr: "failed to parse",
		},
		{
			name:    "empty set",
			content: `{"questions": []}`,
			wantErr: "no questions",
		},
		{
			name:    "wrong option count",
			content: `{"questions": [{"question": "q", "options": ["a", "b"], "correct_answer": "A"}]}`,
			wantErr: "options",
		},
		{
			name:    "invalid correct answer",
			content: `{"questions": [{"question": "q", "options": ["a", "b", "c", "d"], "correct_answer": "E"}]}`,
			wantErr: "invalid correct answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExamQuestions(tt.content)
			if err == nil {
				t.Fatal("ParseExamQuestions() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestScorePercentage(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 10, 0},
		{10, 10, 100},
		{7, 10, 70},
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := ScorePercentage(tt.correct, tt.total); got != tt.want {
			t.Errorf("ScorePercentage(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}
