package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

const analyzePath = "/api/analyze"

// NewClient instantiates a resume-scoring service client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("scorer: base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Analyze submits one resume and a plain-text job description and returns
// the validated analysis. Any non-success envelope, transport error, or
// out-of-range score is an error; callers treat it as an item failure.
func (c *Client) Analyze(ctx context.Context, resume []byte, filename, jobDescription string) (Analysis, error) {
	if c == nil {
		return Analysis{}, fmt.Errorf("scorer: client is nil")
	}
	if len(resume) == 0 {
		return Analysis{}, fmt.Errorf("scorer: resume is empty")
	}
	if filename == "" {
		filename = "resume.pdf"
	}

	body, contentType, err := buildForm(resume, filename, jobDescription)
	if err != nil {
		return Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, body)
	if err != nil {
		return Analysis{}, fmt.Errorf("scorer: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("scorer: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Analysis{}, fmt.Errorf("scorer: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var payload analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Analysis{}, fmt.Errorf("scorer: decode response: %w", err)
	}

	return validate(payload)
}

func buildForm(resume []byte, filename, jobDescription string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("resume", path.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("scorer: build form: %w", err)
	}
	if _, err := part.Write(resume); err != nil {
		return nil, "", fmt.Errorf("scorer: write resume part: %w", err)
	}

	if err := w.WriteField("job_desc", jobDescription); err != nil {
		return nil, "", fmt.Errorf("scorer: write job_desc field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("scorer: finalize form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// validate enforces the response contract before any field is trusted
func validate(payload analyzeResponse) (Analysis, error) {
	if !payload.Success {
		msg := payload.Message
		if msg == "" {
			msg = "unspecified failure"
		}
		return Analysis{}, fmt.Errorf("scorer: analysis rejected: %s", msg)
	}

	if payload.Analysis == nil {
		return Analysis{}, fmt.Errorf("scorer: success response missing analysis")
	}
	if payload.Analysis.OverallScore == nil {
		return Analysis{}, fmt.Errorf("scorer: analysis missing overall_score")
	}

	score := *payload.Analysis.OverallScore
	if score < 0 || score > 1 {
		return Analysis{}, fmt.Errorf("scorer: overall_score %v outside [0,1]", score)
	}

	return Analysis{
		Score:         score,
		Summary:       payload.Analysis.Summary,
		Strengths:     payload.Analysis.Strengths,
		Weaknesses:    payload.Analysis.Weaknesses,
		MatchedSkills: payload.Analysis.MatchedSkills,
		MissingSkills: payload.Analysis.MissingSkills,
	}, nil
}
