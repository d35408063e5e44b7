package scorer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestAnalyzeSendsMultipartForm(t *testing.T) {
	var gotResume []byte
	var gotFilename, gotDesc string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/analyze", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotDesc = r.FormValue("job_desc")

		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotResume, err = io.ReadAll(file)
		require.NoError(t, err)

		fmt.Fprint(w, `{"success":true,"analysis":{"overall_score":0.83,"summary":"solid"}}`)
	})

	res, err := c.Analyze(context.Background(), []byte("%PDF-1.7 fake"), "cv.pdf", "Go backend role")
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7 fake"), gotResume)
	assert.Equal(t, "cv.pdf", gotFilename)
	assert.Equal(t, "Go backend role", gotDesc)
	assert.Equal(t, 0.83, res.Score)
	assert.Equal(t, "solid", res.Summary)
}

func TestAnalyzeDefaultsFilename(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("resume")
		require.NoError(t, err)
		assert.Equal(t, "resume.pdf", header.Filename)
		fmt.Fprint(w, `{"success":true,"analysis":{"overall_score":0.5}}`)
	})

	_, err := c.Analyze(context.Background(), []byte("data"), "", "desc")
	require.NoError(t, err)
}

func TestAnalyzeEmptyResume(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), nil, "cv.pdf", "desc")
	require.Error(t, err)
}

func TestAnalyzeServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Analyze(context.Background(), []byte("data"), "cv.pdf", "desc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestAnalyzeRejectedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"unreadable document"}`)
	})

	_, err := c.Analyze(context.Background(), []byte("data"), "cv.pdf", "desc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable document")
}

func TestAnalyzeMissingAnalysis(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true}`)
	})

	_, err := c.Analyze(context.Background(), []byte("data"), "cv.pdf", "desc")
	require.Error(t, err)
}

func TestAnalyzeMissingScore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"analysis":{"summary":"no score"}}`)
	})

	_, err := c.Analyze(context.Background(), []byte("data"), "cv.pdf", "desc")
	require.Error(t, err)
}

func TestAnalyzeScoreOutOfRange(t *testing.T) {
	for _, raw := range []string{"-0.1", "1.5", "87"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"success":true,"analysis":{"overall_score":%s}}`, raw)
		})

		_, err := c.Analyze(context.Background(), []byte("data"), "cv.pdf", "desc")
		require.Error(t, err, "score %s must be rejected", raw)
	}
}

func TestAnalyzeBoundaryScores(t *testing.T) {
	for _, raw := range []string{"0", "1"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"success":true,"analysis":{"overall_score":%s}}`, raw)
		})

		_, err := c.Analyze(context.Background(), []byte("data"), "cv.pdf", "desc")
		require.NoError(t, err, "score %s is inside the valid range", raw)
	}
}
