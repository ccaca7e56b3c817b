package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobhelper/backend/models"

	"google.golang.org/genai"
)

const (
	// Interview questions are generated statelessly per call, so only the
	// most recent turns are replayed there. Coach conversations always carry
	// the full transcript.
	MaxInterviewHistoryTurns = 20
)

// GeminiService handles all Gemini AI operations
type GeminiService struct {
	genaiClient *genai.Client
	modelName   string
}

func NewGeminiService(apiKey, modelName string) *GeminiService {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{
		genaiClient: genaiClient,
		modelName:   modelName,
	}
}

// GenerateInterviewQuestion produces the next question for a session. The
// question number is 1-based and counts real questions, not the welcome line.
func (g *GeminiService) GenerateInterviewQuestion(ctx context.Context, sessionID, resumeText, jobDescription string, history []models.InterviewMessage, questionNum, totalQuestions int) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	systemInstruction := fmt.Sprintf(`You are a professional job interviewer conducting a structured interview.

Candidate resume:
%s

Job description:
%s

You are asking question %d of %d. Ask exactly one interview question relevant to the position and the candidate's background. Build on the candidate's previous answers where it makes sense. Do not evaluate or give feedback yet. Respond with the question only.`,
		resumeText, jobDescription, questionNum, totalQuestions)

	contents := g.buildInterviewContents(history)
	if len(contents) == 0 {
		contents = append(contents, genai.NewContentFromText("I am ready to begin.", genai.RoleUser))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	response, err := g.generate(ctx, contents, config)
	if err != nil {
		return "", err
	}

	slog.Info("Generated interview question", "session_id", sessionID, "question_num", questionNum, "response_length", len(response))
	return response, nil
}

// GenerateInterviewFeedback asks for the final evaluation of a finished
// interview. The response is expected to carry SCORE: and FEEDBACK: markers;
// callers parse it and must tolerate responses that do not.
func (g *GeminiService) GenerateInterviewFeedback(ctx context.Context, sessionID, resumeText, jobDescription string, history []models.InterviewMessage) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	var transcript strings.Builder
	for _, message := range history {
		transcript.WriteString(fmt.Sprintf("%s: %s\n", message.Role, message.Content))
	}

	prompt := fmt.Sprintf(`You are an interviewer who has just finished interviewing a candidate.

Candidate resume:
%s

Job description:
%s

Interview transcript:
%s

Evaluate the candidate's performance across their answers. Provide an overall score out of 100 and constructive feedback covering strengths and areas for improvement.

Format your response exactly as:
SCORE: <number>
FEEDBACK: <your feedback>`,
		resumeText, jobDescription, transcript.String())

	response, err := g.generate(ctx, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	slog.Info("Generated interview feedback", "session_id", sessionID, "response_length", len(response))
	return response, nil
}

// GenerateCoachReply produces the next coaching message from the full
// conversation so far. The system preamble is built by the caller.
func (g *GeminiService) GenerateCoachReply(ctx context.Context, systemInstruction string, history []models.TrainingMessage) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	contents := g.buildTrainingContents(history)
	if len(contents) == 0 {
		contents = append(contents, genai.NewContentFromText("Hello", genai.RoleUser))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	return g.generate(ctx, contents, config)
}

// GenerateExamQuestions asks for a JSON MCQ set for a job role. The response
// may arrive wrapped in markdown fences; callers extract the JSON body.
func (g *GeminiService) GenerateExamQuestions(ctx context.Context, jobRole string, count int) (string, error) {
	if g.genaiClient == nil {
		return "", fmt.Errorf("genai client not initialized")
	}

	prompt := fmt.Sprintf(`Generate %d multiple-choice questions to assess a candidate for the role of %s.

Return ONLY a JSON object with this exact structure and no other text:
{
  "questions": [
    {
      "question": "the question text",
      "options": ["first option", "second option", "third option", "fourth option"],
      "correct_answer": "A",
      "explanation": "why the correct answer is right"
    }
  ]
}

Rules:
- Exactly 4 options per question.
- correct_answer is a single letter A, B, C or D referring to the option position.
- Questions should cover the practical and conceptual knowledge the role requires.`,
		count, jobRole)

	return g.generate(ctx, genai.Text(prompt), nil)
}

// generate runs one model call with the shared timeout and retry policy.
func (g *GeminiService) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	return callWithRetry(ctx, maxAIAttempts, func(ctx context.Context) (string, error) {
		result, err := g.genaiClient.Models.GenerateContent(ctx, g.modelName, contents, config)
		if err != nil {
			return "", fmt.Errorf("failed to generate response: %w", err)
		}
		return result.Text(), nil
	})
}

func (g *GeminiService) buildInterviewContents(history []models.InterviewMessage) []*genai.Content {
	var contents []*genai.Content

	startIdx := 0
	if len(history) > MaxInterviewHistoryTurns {
		startIdx = len(history) - MaxInterviewHistoryTurns
	}

	for _, message := range history[startIdx:] {
		// Skip empty or whitespace-only content
		if strings.TrimSpace(message.Content) == "" {
			continue
		}

		if message.Role == models.RoleInterviewer {
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleModel))
		} else {
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleUser))
		}
	}

	return contents
}

// buildTrainingContents replays the whole conversation. Coaching context
// builds across the session and earlier turns must not be dropped.
func (g *GeminiService) buildTrainingContents(history []models.TrainingMessage) []*genai.Content {
	var contents []*genai.Content

	for _, message := range history {
		if strings.TrimSpace(message.Content) == "" {
			continue
		}

		if message.Role == models.RoleBot {
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleModel))
		} else {
			contents = append(contents, genai.NewContentFromText(message.Content, genai.RoleUser))
		}
	}

	return contents
}
