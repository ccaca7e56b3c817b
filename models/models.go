package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, Profile, RefreshToken, PermanentToken from user.go
// - InterviewSession, InterviewMessage from interview.go
// - TrainingSession, TrainingMessage from training.go
// - Exam, ExamQuestion, ExamAnswer from exam.go
// - AnalysisResult, ATSResult from resume.go

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. profiles - Resume material per user (pasted text, uploaded file, extracted text)
// 3. interview_sessions / interview_messages - Counted mock-interview turns and transcripts
// 4. training_sessions / training_messages - Open-ended coaching chats
// 5. exams / exam_questions / exam_answers - Generated MCQ exams and the user's answers
// 6. analysis_results / ats_results - Persisted resume analysis and ATS check history
