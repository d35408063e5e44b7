package screening

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxResumeBytes = 10 << 20 // resumes larger than 10 MiB are rejected

// HTTPResumeFetcher loads resume documents over HTTP
type HTTPResumeFetcher struct {
	client *http.Client
}

// NewHTTPResumeFetcher builds a fetcher; a nil client falls back to
// http.DefaultClient. Per-call deadlines come from the caller's context.
func NewHTTPResumeFetcher(client *http.Client) *HTTPResumeFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResumeFetcher{client: client}
}

// Fetch downloads the resume bytes at url
func (f *HTTPResumeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch resume: build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch resume: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch resume: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResumeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch resume: read body: %w", err)
	}
	if len(data) > maxResumeBytes {
		return nil, fmt.Errorf("fetch resume: document exceeds %d bytes", maxResumeBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch resume: empty document")
	}

	return data, nil
}
