package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ResumeAnalysis is the structured output of one resume-vs-job-description
// run.
type ResumeAnalysis struct {
	ATSScore        float64 `json:"ats_score"`
	OverallFeedback string  `json:"overall_feedback"`
	Suggestions     string  `json:"suggestions"`
	ImprovedResume  string  `json:"improved_resume"`
}

// AnalysisService runs AI resume analysis through the Groq gateway.
type AnalysisService struct {
	groq *GroqService
}

func NewAnalysisService(groq *GroqService) *AnalysisService {
	return &AnalysisService{groq: groq}
}

// AnalyzeResume compares a resume against a job description. A response
// that cannot be parsed degrades to raw feedback with a zero score rather
// than failing the run.
func (s *AnalysisService) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*ResumeAnalysis, error) {
	prompt := fmt.Sprintf(`You are an expert resume analyst and career coach. Analyze this resume against the job description and provide comprehensive, actionable feedback.

RESUME:
%s

JOB DESCRIPTION:
%s

Requirements:
1. Score the resume's fit for this job from 0 to 100.
2. Give an overall feedback paragraph.
3. Give specific, actionable suggestions with examples, including missing keywords and how to incorporate them.
4. Rewrite the resume so it is ATS-optimized for this job while staying truthful.

Return ONLY a JSON object with this exact structure and no other text:
{
  "ats_score": 85,
  "overall_feedback": "paragraph about overall resume quality and fit",
  "suggestions": "the suggestions as bullet points in one string",
  "improved_resume": "the full rewritten resume"
}`, resumeText, jobDescription)

	content, err := s.groq.Complete(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	var analysis ResumeAnalysis
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &analysis); err != nil {
		slog.Warn("Failed to parse analysis JSON, keeping raw feedback", "error", err)
		return &ResumeAnalysis{Suggestions: content}, nil
	}

	if analysis.ATSScore < 0 {
		analysis.ATSScore = 0
	}
	if analysis.ATSScore > 100 {
		analysis.ATSScore = 100
	}

	return &analysis, nil
}
