package services

import (
	"fmt"
	"testing"

	"github.com/jobhelper/backend/models"

	"google.golang.org/genai"
)

func trainingHistory(n int) []models.TrainingMessage {
	history := make([]models.TrainingMessage, 0, n)
	for i := 1; i <= n; i++ {
		role := models.RoleUser
		if i%2 == 0 {
			role = models.RoleBot
		}
		history = append(history, models.TrainingMessage{
			Seq:     i,
			Role:    role,
			Content: fmt.Sprintf("turn %d", i),
		})
	}
	return history
}

func TestBuildTrainingContentsKeepsFullHistory(t *testing.T) {
	g := &GeminiService{}

	history := trainingHistory(25)
	contents := g.buildTrainingContents(history)

	if len(contents) != 25 {
		t.Fatalf("expected all 25 messages in contents, got %d", len(contents))
	}
	if got := contents[0].Parts[0].Text; got != "turn 1" {
		t.Errorf("expected earliest turn first, got %q", got)
	}
	if got := contents[24].Parts[0].Text; got != "turn 25" {
		t.Errorf("expected latest turn last, got %q", got)
	}
	if contents[0].Role != genai.RoleUser {
		t.Errorf("expected user role for user message, got %q", contents[0].Role)
	}
	if contents[1].Role != genai.RoleModel {
		t.Errorf("expected model role for bot message, got %q", contents[1].Role)
	}
}

func TestBuildTrainingContentsSkipsBlankMessages(t *testing.T) {
	g := &GeminiService{}

	history := []models.TrainingMessage{
		{Seq: 1, Role: models.RoleBot, Content: "What would you like to work on?"},
		{Seq: 2, Role: models.RoleUser, Content: "   "},
		{Seq: 3, Role: models.RoleUser, Content: "Negotiation tips"},
	}

	contents := g.buildTrainingContents(history)
	if len(contents) != 2 {
		t.Fatalf("expected blank message skipped, got %d contents", len(contents))
	}
	if got := contents[1].Parts[0].Text; got != "Negotiation tips" {
		t.Errorf("unexpected second content %q", got)
	}
}

func TestBuildInterviewContentsKeepsRecentTurns(t *testing.T) {
	g := &GeminiService{}

	history := make([]models.InterviewMessage, 0, 25)
	for i := 1; i <= 25; i++ {
		role := models.RoleCandidate
		if i%2 == 1 {
			role = models.RoleInterviewer
		}
		history = append(history, models.InterviewMessage{
			Seq:     i,
			Role:    role,
			Content: fmt.Sprintf("turn %d", i),
		})
	}

	contents := g.buildInterviewContents(history)
	if len(contents) != MaxInterviewHistoryTurns {
		t.Fatalf("expected %d contents, got %d", MaxInterviewHistoryTurns, len(contents))
	}
	if got := contents[0].Parts[0].Text; got != "turn 6" {
		t.Errorf("expected oldest turns dropped, first content %q", got)
	}
	if got := contents[len(contents)-1].Parts[0].Text; got != "turn 25" {
		t.Errorf("expected latest turn last, got %q", got)
	}
}
