package scorer

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestAnalyzeIntegration(t *testing.T) {
	baseURL := os.Getenv("SCORER_URL")
	if baseURL == "" {
		t.Skip("SCORER_URL must be set to run this test")
	}

	client, err := NewClient(Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resume := []byte("%PDF-1.4\nJane Doe\nGo developer, five years building HTTP services with Neo4j and RabbitMQ.\n")
	jobDescription := "Backend engineer working on Go services, graph databases and message queues."

	analysis, err := client.Analyze(ctx, resume, "resume.pdf", jobDescription)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.Score < 0 || analysis.Score > 1 {
		t.Fatalf("score %v outside [0,1]", analysis.Score)
	}
	t.Logf("score=%.2f summary=%q matched=%d missing=%d",
		analysis.Score, analysis.Summary, len(analysis.MatchedSkills), len(analysis.MissingSkills))
}
