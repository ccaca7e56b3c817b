package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jobhelper/backend/models"
)

type fakeTrainingStore struct {
	messages map[string][]models.TrainingMessage
	nextID   int
}

func newFakeTrainingStore() *fakeTrainingStore {
	return &fakeTrainingStore{messages: make(map[string][]models.TrainingMessage)}
}

func (f *fakeTrainingStore) CreateTrainingSession(ctx context.Context, session *models.TrainingSession) error {
	f.nextID++
	session.ID = fmt.Sprintf("training-%d", f.nextID)
	return nil
}

func (f *fakeTrainingStore) AppendTrainingMessage(ctx context.Context, message *models.TrainingMessage) error {
	f.messages[message.SessionID] = append(f.messages[message.SessionID], *message)
	return nil
}

func (f *fakeTrainingStore) GetTrainingMessages(ctx context.Context, sessionID string) ([]models.TrainingMessage, error) {
	return f.messages[sessionID], nil
}

type fakeCoach struct {
	reply string
	err   error

	lastInstruction string
	lastHistory     []models.TrainingMessage
}

func (f *fakeCoach) GenerateCoachReply(ctx context.Context, systemInstruction string, history []models.TrainingMessage) (string, error) {
	f.lastInstruction = systemInstruction
	f.lastHistory = history
	return f.reply, f.err
}

func TestTrainingStartSessionWritesWelcome(t *testing.T) {
	store := newFakeTrainingStore()
	svc := NewTrainingService(store, &fakeCoach{}, nil)

	session, err := svc.StartSession(context.Background(), "user-1", "jd", "resume")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	msgs := store.messages[session.ID]
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1", len(msgs))
	}
	if msgs[0].Role != models.RoleBot || msgs[0].Content != CoachWelcomeMessage || msgs[0].Seq != 1 {
		t.Errorf("welcome = %+v", msgs[0])
	}
}

func TestTrainingTurnStoresReplyVerbatim(t *testing.T) {
	store := newFakeTrainingStore()
	coach := &fakeCoach{reply: "Focus your resume on measurable outcomes."}
	svc := NewTrainingService(store, coach, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "Platform engineer", "my resume")
	reply, err := svc.Turn(context.Background(), session, "How do I improve my resume?")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}

	if reply.Content != coach.reply || reply.Role != models.RoleBot {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Seq != 3 {
		t.Errorf("reply seq = %d, want 3", reply.Seq)
	}
	if len(coach.lastHistory) != 2 {
		t.Errorf("history length = %d, want welcome plus user message", len(coach.lastHistory))
	}
	if !strings.Contains(coach.lastInstruction, "my resume") || !strings.Contains(coach.lastInstruction, "Platform engineer") {
		t.Errorf("system instruction missing session context: %q", coach.lastInstruction)
	}
}

func TestTrainingTurnStoresGatewayErrorAsBotMessage(t *testing.T) {
	store := newFakeTrainingStore()
	svc := NewTrainingService(store, &fakeCoach{err: errors.New("rate limited")}, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume")
	reply, err := svc.Turn(context.Background(), session, "hello")
	if err != nil {
		t.Fatalf("Turn() error = %v, gateway failures must not fail the turn", err)
	}

	if reply.Role != models.RoleBot {
		t.Errorf("reply role = %s, want bot", reply.Role)
	}
	if !strings.Contains(reply.Content, "rate limited") {
		t.Errorf("reply = %q, want inline error text", reply.Content)
	}

	msgs := store.messages[session.ID]
	if len(msgs) != 3 {
		t.Errorf("message count = %d, want 3", len(msgs))
	}
}
