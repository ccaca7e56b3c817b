package services

import (
	"strings"
	"testing"
)

const atsTestResume = `Jane Doe
jane@example.com | linkedin.com/in/janedoe

Summary
Backend engineer with 5 years of experience building services in Go and Python.

Experience
- Developed REST APIs in Go serving 2M requests per day, improved latency by 40%
- Led a team of 4 engineers, managed the migration to Docker and Kubernetes
- Implemented PostgreSQL query optimizations

Education
B.Sc. Computer Science, Example University

Skills
Go, Python, C++, Docker, Kubernetes, PostgreSQL, Git, AWS, leadership, communication
`

const atsTestJD = `We are hiring a Senior Backend Engineer.
Requirements: 5+ years experience with Go, Python, Docker, Kubernetes, PostgreSQL, AWS, REST APIs.
Strong leadership and communication skills. Experience with Rust is a plus.`

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"C++", "cpp"},
		{"c#", "csharp"},
		{"Go", "go"},
		{"PostgreSQL", "postgresql"},
	}
	for _, tt := range tests {
		if got := NormalizeToken(tt.in); got != tt.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords("Expert in C++ and C# development")
	joined := strings.Join(keywords, " ")
	if !strings.Contains(joined, "cpp") {
		t.Errorf("keywords = %v, want cpp from C++", keywords)
	}
	if !strings.Contains(joined, "csharp") {
		t.Errorf("keywords = %v, want csharp from C#", keywords)
	}
	if ExtractKeywords("") != nil {
		t.Error("ExtractKeywords(\"\") should be nil")
	}
}

func TestAnalyzeATSMatchingResume(t *testing.T) {
	analysis := AnalyzeATS(atsTestResume, atsTestJD)

	if analysis.FinalScore < 60 {
		t.Errorf("FinalScore = %d, want a strong score for a well-matched resume", analysis.FinalScore)
	}
	if analysis.FinalScore > 100 || analysis.FinalScore < 0 {
		t.Errorf("FinalScore = %d out of range", analysis.FinalScore)
	}

	for _, section := range []string{"header", "summary", "experience", "education", "skills"} {
		if !analysis.Sections[section] {
			t.Errorf("section %q not detected", section)
		}
	}

	found := strings.Join(analysis.TechnicalFound, " ")
	for _, kw := range []string{"go", "docker", "kubernetes", "postgresql"} {
		if !strings.Contains(found, kw) {
			t.Errorf("technical keywords %v missing %q", analysis.TechnicalFound, kw)
		}
	}

	// Rust appears only in the JD
	missing := strings.Join(analysis.MissingKeywords, " ")
	if !strings.Contains(missing, "rust") {
		t.Errorf("missing keywords = %v, want rust", analysis.MissingKeywords)
	}
}

func TestAnalyzeATSEmptyResume(t *testing.T) {
	analysis := AnalyzeATS("", atsTestJD)
	if analysis.FinalScore < 0 || analysis.FinalScore > 100 {
		t.Errorf("FinalScore = %d out of range", analysis.FinalScore)
	}
	if len(analysis.TechnicalFound) != 0 {
		t.Errorf("TechnicalFound = %v, want none", analysis.TechnicalFound)
	}
}

func TestAnalyzeATSNoKeywordsInJD(t *testing.T) {
	analysis := AnalyzeATS(atsTestResume, "We want someone nice.")
	// With nothing to match the keyword score falls back to neutral
	if analysis.KeywordScore != 50 {
		t.Errorf("KeywordScore = %d, want neutral 50", analysis.KeywordScore)
	}
}

func TestParseGroqATSResponse(t *testing.T) {
	content := `### ATS Score: 78

### Missing Keywords:
rust, terraform, grpc

### Suggestions:
- Add Rust experience
- Quantify the Kubernetes migration

### Optimized Resume:
Jane Doe
Senior Backend Engineer...`

	result := ParseGroqATSResponse(content, true)
	if result.LLMScore != 78 {
		t.Errorf("LLMScore = %d, want 78", result.LLMScore)
	}
	if result.MissingKeywords != "rust, terraform, grpc" {
		t.Errorf("MissingKeywords = %q", result.MissingKeywords)
	}
	if !strings.Contains(result.Suggestions, "Add Rust experience") {
		t.Errorf("Suggestions = %q", result.Suggestions)
	}
	if !strings.HasPrefix(result.OptimizedResume, "Jane Doe") {
		t.Errorf("OptimizedResume = %q", result.OptimizedResume)
	}
}

func TestParseGroqATSResponseWithoutRewrite(t *testing.T) {
	content := `### ATS Score: 150

### Suggestions:
- Trim the summary

### Optimized Resume:
should be ignored`

	result := ParseGroqATSResponse(content, false)
	if result.LLMScore != 100 {
		t.Errorf("LLMScore = %d, want clamped 100", result.LLMScore)
	}
	if result.OptimizedResume != "" {
		t.Errorf("OptimizedResume = %q, want empty when rewrite is off", result.OptimizedResume)
	}
	if result.MissingKeywords != "" {
		t.Errorf("MissingKeywords = %q, want empty for absent section", result.MissingKeywords)
	}
}

func TestParseGroqATSResponseFreeText(t *testing.T) {
	result := ParseGroqATSResponse("The resume looks fine to me.", false)
	if result.LLMScore != 0 || result.Suggestions != "" {
		t.Errorf("result = %+v, want zero values for unstructured output", result)
	}
	if result.Raw != "The resume looks fine to me." {
		t.Errorf("Raw = %q", result.Raw)
	}
}

func TestFallbackSuggestions(t *testing.T) {
	analysis := ATSAnalysis{
		MissingKeywords: []string{"rust", "grpc"},
		Sections:        map[string]bool{"header": true, "experience": true},
		FormatScore:     60,
	}

	out := FallbackSuggestions(analysis)
	if !strings.Contains(out, "rust, grpc") {
		t.Errorf("suggestions missing keywords: %q", out)
	}
	if !strings.Contains(out, "skills section") {
		t.Errorf("suggestions missing section advice: %q", out)
	}
	if !strings.Contains(out, "action verbs") {
		t.Errorf("suggestions missing format advice: %q", out)
	}

	clean := FallbackSuggestions(ATSAnalysis{
		Sections:    map[string]bool{"header": true, "summary": true, "experience": true, "education": true, "skills": true, "projects": true},
		FormatScore: 90,
	})
	if !strings.Contains(clean, "already covers") {
		t.Errorf("clean suggestions = %q", clean)
	}
}
