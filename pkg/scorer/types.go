package scorer

import "net/http"

// Config defines resume-scoring service client settings
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the external resume-scoring service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Analysis is the structured result for one (resume, job description)
// pair. Score is always inside [0, 1].
type Analysis struct {
	Score         float64
	Summary       string
	Strengths     []string
	Weaknesses    []string
	MatchedSkills []string
	MissingSkills []string
}

// analyzeResponse mirrors the scorer's JSON envelope. The shape is
// validated at this boundary before any field is used.
type analyzeResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Analysis *analysisPayload `json:"analysis"`
}

type analysisPayload struct {
	OverallScore  *float64 `json:"overall_score"`
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}
