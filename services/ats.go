package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Token pattern covering tech terms like c++, c#, .net
var wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z\-\+\.#\d]+`)

var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Python|Java|JavaScript|C\+\+|C#|PHP|Ruby|Go|Rust|Swift|Kotlin)\b`),
	regexp.MustCompile(`(?i)\b(?:React|Angular|Vue|Node\.js|Express|Django|Flask|Spring|Laravel)\b`),
	regexp.MustCompile(`(?i)\b(?:AWS|Azure|GCP|Docker|Kubernetes|Jenkins|Git|GitHub|GitLab)\b`),
	regexp.MustCompile(`(?i)\b(?:SQL|MySQL|PostgreSQL|MongoDB|Redis|Elasticsearch)\b`),
	regexp.MustCompile(`(?i)\b(?:HTML|CSS|SASS|LESS|Bootstrap|Tailwind|jQuery)\b`),
	regexp.MustCompile(`(?i)\b(?:REST|API|GraphQL|Microservices|Agile|Scrum|DevOps)\b`),
	regexp.MustCompile(`(?i)\b(?:Machine Learning|AI|Data Science|Analytics|Tableau|Power BI)\b`),
	regexp.MustCompile(`(?i)\b(?:Linux|Unix|Windows|macOS|iOS|Android)\b`),
}

var softSkillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:leadership|teamwork|communication|problem solving|analytical|creative)\b`),
	regexp.MustCompile(`(?i)\b(?:collaboration|time management|project management|mentoring|training)\b`),
	regexp.MustCompile(`(?i)\b(?:adaptability|flexibility|initiative|attention to detail|critical thinking)\b`),
	regexp.MustCompile(`(?i)\b(?:presentation|negotiation|customer service|client relations|stakeholder management)\b`),
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:years?|experience|senior|junior|lead|principal|architect|engineer|developer|analyst)\b`),
	regexp.MustCompile(`(?i)\b(?:startup|enterprise|fintech|healthcare|e-commerce|SaaS|B2B|B2C)\b`),
	regexp.MustCompile(`(?i)\b(?:remote|hybrid|onsite|full-time|part-time|contract|freelance)\b`),
}

var (
	quantifiedPattern = regexp.MustCompile(`\b\d+%|\b\d+\+|\b\d+[kK]|\$\d+`)
	actionVerbPattern = regexp.MustCompile(`(?i)\b(?:developed|implemented|created|designed|managed|led|improved|optimized)`)
	emailPattern      = regexp.MustCompile(`@\w+\.\w+`)
	sectionPatterns   = map[string]*regexp.Regexp{
		"header":     regexp.MustCompile(`(?i)(?:name|email|phone|linkedin)`),
		"summary":    regexp.MustCompile(`(?i)(?:summary|objective|profile|about)`),
		"experience": regexp.MustCompile(`(?i)(?:experience|employment|work history|professional)`),
		"education":  regexp.MustCompile(`(?i)(?:education|degree|university|college|school)`),
		"skills":     regexp.MustCompile(`(?i)(?:skills|technical|technologies|competencies)`),
		"projects":   regexp.MustCompile(`(?i)(?:projects|portfolio|achievements)`),
	}
)

// NormalizeToken lowercases a token and folds tech spellings that ATS
// systems treat as equivalent.
func NormalizeToken(w string) string {
	wl := strings.ToLower(w)
	wl = strings.ReplaceAll(wl, "c++", "cpp")
	wl = strings.ReplaceAll(wl, "c#", "csharp")
	return wl
}

// ExtractKeywords tokenizes text into normalized keyword candidates.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	words := wordPattern.FindAllString(text, -1)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		keywords = append(keywords, NormalizeToken(w))
	}
	return keywords
}

// ATSAnalysis is the heuristic compatibility breakdown of a resume against
// a job description.
type ATSAnalysis struct {
	FinalScore      int             `json:"final_score"`
	KeywordScore    int             `json:"keyword_score"`
	SectionScore    int             `json:"section_score"`
	FormatScore     int             `json:"format_score"`
	ExperienceScore int             `json:"experience_score"`
	MissingKeywords []string        `json:"missing_keywords"`
	Sections        map[string]bool `json:"sections_analysis"`
	TechnicalFound  []string        `json:"technical_keywords_found"`
	SoftSkillsFound []string        `json:"soft_skills_found"`
}

// AnalyzeATS scores ATS compatibility from keyword density, section
// completeness, format friendliness and experience relevance, fused
// 0.4/0.25/0.2/0.15.
func AnalyzeATS(resumeText, jdText string) ATSAnalysis {
	technicalKeywords := matchPatternKeywords(jdText, technicalPatterns)
	softSkills := matchPatternKeywords(jdText, softSkillPatterns)
	experienceKeywords := matchPatternKeywords(jdText, experiencePatterns)

	sections := analyzeResumeSections(resumeText)

	keywordScore := calculateKeywordScore(resumeText, technicalKeywords, softSkills)
	sectionScore := calculateSectionScore(sections)
	formatScore := calculateFormatScore(resumeText)
	experienceScore := calculateExperienceRelevance(resumeText, experienceKeywords)

	finalScore := int(float64(keywordScore)*0.4 +
		float64(sectionScore)*0.25 +
		float64(formatScore)*0.2 +
		float64(experienceScore)*0.15 + 0.5)

	return ATSAnalysis{
		FinalScore:      finalScore,
		KeywordScore:    keywordScore,
		SectionScore:    sectionScore,
		FormatScore:     formatScore,
		ExperienceScore: experienceScore,
		MissingKeywords: findMissingCriticalKeywords(resumeText, technicalKeywords, softSkills),
		Sections:        sections,
		TechnicalFound:  findMatchingKeywords(resumeText, technicalKeywords),
		SoftSkillsFound: findMatchingKeywords(resumeText, softSkills),
	}
}

func matchPatternKeywords(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllString(text, -1) {
			seen[strings.ToLower(match)] = true
		}
	}
	keywords := make([]string, 0, len(seen))
	for keyword := range seen {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

func analyzeResumeSections(resumeText string) map[string]bool {
	sections := make(map[string]bool, len(sectionPatterns))
	for name, pattern := range sectionPatterns {
		sections[name] = pattern.MatchString(resumeText)
	}
	return sections
}

func calculateKeywordScore(resumeText string, technicalKeywords, softSkills []string) int {
	if len(technicalKeywords) == 0 && len(softSkills) == 0 {
		return 50
	}

	// Normalize so c++ in the resume matches a cpp-folded keyword set
	resumeLower := NormalizeToken(resumeText)

	var found float64
	for _, keyword := range technicalKeywords {
		if strings.Contains(resumeLower, NormalizeToken(keyword)) {
			found += 1.5 // Technical keywords matter more to ATS
		}
	}
	for _, skill := range softSkills {
		if strings.Contains(resumeLower, skill) {
			found += 1
		}
	}

	denominator := float64(len(technicalKeywords))*1.5 + float64(len(softSkills))
	score := int(found/denominator*100 + 0.5)
	return clampScore(score)
}

func calculateSectionScore(sections map[string]bool) int {
	requiredSections := []string{"header", "experience", "education", "skills"}
	optionalSections := []string{"summary", "projects"}

	required := 0
	for _, section := range requiredSections {
		if sections[section] {
			required++
		}
	}
	optional := 0
	for _, section := range optionalSections {
		if sections[section] {
			optional++
		}
	}

	// Required sections carry double weight
	score := int(float64(required*2+optional)/float64(len(requiredSections)*2+len(optionalSections))*100 + 0.5)
	return clampScore(score)
}

func calculateFormatScore(resumeText string) int {
	score := 50

	if quantifiedPattern.MatchString(resumeText) {
		score += 15
	}
	if actionVerbPattern.MatchString(resumeText) {
		score += 15
	}
	if len(strings.Split(resumeText, "\n")) > 10 {
		score += 10
	}
	if emailPattern.MatchString(resumeText) {
		score += 10
	}

	return clampScore(score)
}

func calculateExperienceRelevance(resumeText string, experienceKeywords []string) int {
	if len(experienceKeywords) == 0 {
		return 50
	}

	resumeLower := strings.ToLower(resumeText)
	found := 0
	for _, keyword := range experienceKeywords {
		if strings.Contains(resumeLower, keyword) {
			found++
		}
	}

	score := int(float64(found)/float64(len(experienceKeywords))*100 + 0.5)
	return clampScore(score)
}

func findMissingCriticalKeywords(resumeText string, technicalKeywords, softSkills []string) []string {
	resumeLower := NormalizeToken(resumeText)
	var missing []string

	for _, keyword := range technicalKeywords {
		if !strings.Contains(resumeLower, NormalizeToken(keyword)) {
			missing = append(missing, keyword)
		}
	}

	importantSoftSkills := []string{"leadership", "communication", "problem solving", "teamwork", "analytical"}
	softSet := make(map[string]bool, len(softSkills))
	for _, skill := range softSkills {
		softSet[skill] = true
	}
	for _, skill := range importantSoftSkills {
		if softSet[skill] && !strings.Contains(resumeLower, skill) {
			missing = append(missing, skill)
		}
	}

	if len(missing) > 20 {
		missing = missing[:20]
	}
	return missing
}

func findMatchingKeywords(resumeText string, keywords []string) []string {
	resumeLower := NormalizeToken(resumeText)
	var found []string
	for _, keyword := range keywords {
		if strings.Contains(resumeLower, NormalizeToken(keyword)) {
			found = append(found, keyword)
		}
	}
	return found
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// LLM pass

var (
	llmScorePattern       = regexp.MustCompile(`(?i)###\s*ATS\s*Score:\s*(\d{1,3})`)
	llmMissingPattern     = regexp.MustCompile(`(?is)###\s*Missing\s*Keywords:\s*(.+?)(?:\n###|\z)`)
	llmSuggestionsPattern = regexp.MustCompile(`(?is)###\s*Suggestions:\s*(.+?)(?:\n###|\z)`)
	llmOptimizedPattern   = regexp.MustCompile(`(?is)###\s*Optimized\s*Resume:\s*(.+)\z`)
)

// GroqATSResult is the parsed LLM pass over a resume/job description pair.
type GroqATSResult struct {
	LLMScore        int
	MissingKeywords string
	Suggestions     string
	OptimizedResume string
	Raw             string
}

// ParseGroqATSResponse pulls the anchored sections out of the model output.
// Absent sections stay empty; out-of-range scores are clamped.
func ParseGroqATSResponse(content string, rewrite bool) GroqATSResult {
	result := GroqATSResult{Raw: content}

	if m := llmScorePattern.FindStringSubmatch(content); m != nil {
		score, err := strconv.Atoi(m[1])
		if err == nil {
			result.LLMScore = clampScore(score)
		}
	}
	if m := llmMissingPattern.FindStringSubmatch(content); m != nil {
		result.MissingKeywords = strings.TrimSpace(m[1])
	}
	if m := llmSuggestionsPattern.FindStringSubmatch(content); m != nil {
		result.Suggestions = strings.TrimSpace(m[1])
	}
	if rewrite {
		if m := llmOptimizedPattern.FindStringSubmatch(content); m != nil {
			result.OptimizedResume = strings.TrimSpace(m[1])
		}
	}

	return result
}

// ATSService fuses the heuristic analysis with the Groq LLM pass.
type ATSService struct {
	groq *GroqService
}

func NewATSService(groq *GroqService) *ATSService {
	return &ATSService{groq: groq}
}

// GroqAnalysis runs the LLM comparison. rewrite controls whether an
// optimized resume section is requested.
func (s *ATSService) GroqAnalysis(ctx context.Context, resumeText, jobDescription string, rewrite bool) (GroqATSResult, error) {
	rewriteBlock := "Do NOT include a rewritten resume."
	if rewrite {
		rewriteBlock = "Also include a full optimized resume under a heading '### Optimized Resume:' that preserves truthful experience, avoids fabrications, and improves phrasing."
	}

	prompt := fmt.Sprintf(`You are an ATS and career expert. Compare the candidate's resume with the job description.

Return EXACTLY these sections (use these headings):
### ATS Score:
<single integer 0-100>

### Missing Keywords:
<comma-separated keywords (max 30)>

### Suggestions:
<6-10 bullet points>

%s

Resume:
%s

Job description:
%s`, rewriteBlock, resumeText, jobDescription)

	content, err := s.groq.Complete(ctx, prompt, 0.5)
	if err != nil {
		return GroqATSResult{}, err
	}

	return ParseGroqATSResponse(content, rewrite), nil
}

// FallbackSuggestions builds heuristic-only advice when the LLM pass is
// unavailable.
func FallbackSuggestions(analysis ATSAnalysis) string {
	var lines []string
	if len(analysis.MissingKeywords) > 0 {
		lines = append(lines, "- Add these keywords from the job description: "+strings.Join(analysis.MissingKeywords, ", "))
	}
	for _, section := range []string{"header", "summary", "experience", "education", "skills", "projects"} {
		if !analysis.Sections[section] {
			lines = append(lines, "- Add a clearly labeled "+section+" section")
		}
	}
	if analysis.FormatScore < 80 {
		lines = append(lines, "- Use action verbs and quantify achievements with numbers or percentages")
	}
	if len(lines) == 0 {
		lines = append(lines, "- Your resume already covers the job description well; tailor the summary to this role for a final boost")
	}
	return strings.Join(lines, "\n")
}
