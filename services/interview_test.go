package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
)

type fakeInterviewStore struct {
	sessions   map[string]*models.InterviewSession
	messages   map[string][]models.InterviewMessage
	advanceErr error
	nextID     int
}

func newFakeInterviewStore() *fakeInterviewStore {
	return &fakeInterviewStore{
		sessions: make(map[string]*models.InterviewSession),
		messages: make(map[string][]models.InterviewMessage),
	}
}

func (f *fakeInterviewStore) CreateInterviewSession(ctx context.Context, session *models.InterviewSession) error {
	f.nextID++
	session.ID = fmt.Sprintf("session-%d", f.nextID)
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeInterviewStore) GetInterviewSessions(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	var out []models.InterviewSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeInterviewStore) AppendInterviewMessage(ctx context.Context, message *models.InterviewMessage) error {
	f.messages[message.SessionID] = append(f.messages[message.SessionID], *message)
	return nil
}

func (f *fakeInterviewStore) GetInterviewMessages(ctx context.Context, sessionID string) ([]models.InterviewMessage, error) {
	return f.messages[sessionID], nil
}

func (f *fakeInterviewStore) AdvanceInterviewSession(ctx context.Context, session *models.InterviewSession, expectedVersion int) error {
	if f.advanceErr != nil {
		return f.advanceErr
	}
	session.TurnVersion = expectedVersion + 1
	return nil
}

type fakeInterviewAI struct {
	question    string
	questionErr error
	feedback    string
	feedbackErr error

	questionNums []int
}

func (f *fakeInterviewAI) GenerateInterviewQuestion(ctx context.Context, sessionID, resumeText, jobDescription string, history []models.InterviewMessage, questionNum, totalQuestions int) (string, error) {
	f.questionNums = append(f.questionNums, questionNum)
	return f.question, f.questionErr
}

func (f *fakeInterviewAI) GenerateInterviewFeedback(ctx context.Context, sessionID, resumeText, jobDescription string, history []models.InterviewMessage) (string, error) {
	return f.feedback, f.feedbackErr
}

type fakeFeed struct {
	published []int
}

func (f *fakeFeed) PublishMessage(sessionID, role, content string, seq int) {
	f.published = append(f.published, seq)
}

func TestStartSessionWritesWelcome(t *testing.T) {
	store := newFakeInterviewStore()
	feed := &fakeFeed{}
	svc := NewInterviewService(store, &fakeInterviewAI{question: "Q"}, feed)

	session, err := svc.StartSession(context.Background(), "user-1", "Backend role", "my resume", 0)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if session.TotalQuestions != 10 {
		t.Errorf("TotalQuestions = %d, want default 10", session.TotalQuestions)
	}
	msgs := store.messages[session.ID]
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1", len(msgs))
	}
	if msgs[0].Role != models.RoleInterviewer || msgs[0].Seq != 1 {
		t.Errorf("welcome message = %+v, want interviewer seq 1", msgs[0])
	}
	if msgs[0].Content != WelcomeMessage {
		t.Errorf("welcome content = %q", msgs[0].Content)
	}
	if len(feed.published) != 1 || feed.published[0] != 1 {
		t.Errorf("published seqs = %v, want [1]", feed.published)
	}
}

func TestTurnAsksNextQuestion(t *testing.T) {
	store := newFakeInterviewStore()
	ai := &fakeInterviewAI{question: "Tell me about Go."}
	svc := NewInterviewService(store, ai, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", 3)

	reply, err := svc.Turn(context.Background(), session, "I'm ready")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}

	if reply.Content != "Tell me about Go." {
		t.Errorf("reply = %q", reply.Content)
	}
	if reply.Role != models.RoleInterviewer || reply.Seq != 3 {
		t.Errorf("reply role/seq = %s/%d, want interviewer/3", reply.Role, reply.Seq)
	}
	if session.CurrentQuestion != 1 {
		t.Errorf("CurrentQuestion = %d, want 1", session.CurrentQuestion)
	}
	if session.TurnVersion != 1 {
		t.Errorf("TurnVersion = %d, want 1", session.TurnVersion)
	}
	// The welcome line is the only interviewer message before this turn,
	// so the first real question is number 1.
	if len(ai.questionNums) != 1 || ai.questionNums[0] != 1 {
		t.Errorf("question numbers = %v, want [1]", ai.questionNums)
	}
}

func TestTurnFallsBackOnEmptyQuestion(t *testing.T) {
	store := newFakeInterviewStore()
	svc := NewInterviewService(store, &fakeInterviewAI{question: "   "}, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", 3)
	reply, err := svc.Turn(context.Background(), session, "ready")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if reply.Content != fallbackQuestion {
		t.Errorf("reply = %q, want fallback question", reply.Content)
	}
}

func TestTurnSurfacesGatewayErrorAsQuestion(t *testing.T) {
	store := newFakeInterviewStore()
	svc := NewInterviewService(store, &fakeInterviewAI{questionErr: errors.New("quota exceeded")}, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", 3)
	reply, err := svc.Turn(context.Background(), session, "ready")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if !strings.Contains(reply.Content, "Error generating question") || !strings.Contains(reply.Content, "quota exceeded") {
		t.Errorf("reply = %q, want inline error text", reply.Content)
	}
	if session.CurrentQuestion != 1 {
		t.Errorf("CurrentQuestion = %d, want 1 even on error", session.CurrentQuestion)
	}
}

func TestInterviewCompletesAfterFinalAnswer(t *testing.T) {
	store := newFakeInterviewStore()
	ai := &fakeInterviewAI{
		question: "Next question?",
		feedback: "SCORE: 83\nFEEDBACK: Solid answers with good depth.",
	}
	svc := NewInterviewService(store, ai, nil)

	total := 2
	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", total)

	// Reply to the welcome, then answer each question.
	if _, err := svc.Turn(context.Background(), session, "ready"); err != nil {
		t.Fatalf("warmup turn error = %v", err)
	}
	for i := 0; i < total; i++ {
		if session.Completed {
			t.Fatalf("session completed after %d answers, want %d", i, total)
		}
		if _, err := svc.Turn(context.Background(), session, fmt.Sprintf("answer %d", i+1)); err != nil {
			t.Fatalf("turn %d error = %v", i+1, err)
		}
	}

	if !session.Completed {
		t.Fatal("session not completed after final answer")
	}
	if session.PerformanceScore == nil || *session.PerformanceScore != 83 {
		t.Errorf("PerformanceScore = %v, want 83", session.PerformanceScore)
	}
	if session.FeedbackSummary != "Solid answers with good depth." {
		t.Errorf("FeedbackSummary = %q", session.FeedbackSummary)
	}
	if !session.ScoreParsed {
		t.Error("ScoreParsed = false, want true")
	}

	// Welcome + warmup + (question+answer) per question + evaluation.
	msgs := store.messages[session.ID]
	want := 2 + 2*total + 1
	if len(msgs) != want {
		t.Errorf("message count = %d, want %d", len(msgs), want)
	}
	for i, m := range msgs {
		if m.Seq != i+1 {
			t.Errorf("message %d has seq %d", i, m.Seq)
		}
	}
}

func TestInterviewKeepsRawFeedbackWhenUnparseable(t *testing.T) {
	store := newFakeInterviewStore()
	ai := &fakeInterviewAI{feedbackErr: errors.New("model offline")}
	svc := NewInterviewService(store, ai, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", 1)
	session.CurrentQuestion = 1

	reply, err := svc.Turn(context.Background(), session, "final answer")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}

	if !session.Completed {
		t.Fatal("session not completed")
	}
	if session.ScoreParsed {
		t.Error("ScoreParsed = true for unparseable feedback")
	}
	if session.PerformanceScore == nil || *session.PerformanceScore != 0 {
		t.Errorf("PerformanceScore = %v, want 0", session.PerformanceScore)
	}
	if !strings.Contains(reply.Content, "model offline") {
		t.Errorf("reply = %q, want raw error text", reply.Content)
	}
	if session.FeedbackSummary != reply.Content {
		t.Errorf("FeedbackSummary = %q, want full raw text", session.FeedbackSummary)
	}
}

func TestTurnRejectsCompletedSession(t *testing.T) {
	store := newFakeInterviewStore()
	svc := NewInterviewService(store, &fakeInterviewAI{}, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", 1)
	session.Completed = true

	if _, err := svc.Turn(context.Background(), session, "hello"); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("Turn() error = %v, want ErrSessionCompleted", err)
	}
}

func TestTurnPropagatesStaleVersion(t *testing.T) {
	store := newFakeInterviewStore()
	store.advanceErr = repository.ErrStaleTurn
	svc := NewInterviewService(store, &fakeInterviewAI{question: "Q"}, nil)

	session, _ := svc.StartSession(context.Background(), "user-1", "jd", "resume", 3)
	if _, err := svc.Turn(context.Background(), session, "ready"); !errors.Is(err, repository.ErrStaleTurn) {
		t.Errorf("Turn() error = %v, want ErrStaleTurn", err)
	}
}
