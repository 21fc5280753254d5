package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opsdesk/mailtriage/internal/dedupe"
	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/extract"
	"github.com/opsdesk/mailtriage/internal/reader"
	"github.com/opsdesk/mailtriage/internal/scorer"
	"github.com/opsdesk/mailtriage/internal/taxonomy"
	"github.com/opsdesk/mailtriage/internal/workflow"
)

// keywordScorer ranks by naive keyword matching, good enough to steer the
// graph deterministically.
type keywordScorer struct{}

func (keywordScorer) Rank(_ context.Context, text string, candidates []scorer.Candidate) ([]scorer.Score, error) {
	lower := strings.ToLower(text)

	pick := func(label string, confidence float64) []scorer.Score {
		scores := []scorer.Score{{Label: label, Confidence: confidence}}
		for _, c := range candidates {
			if c.Label != label {
				scores = append(scores, scorer.Score{Label: c.Label, Confidence: 0.05})
			}
		}
		return scores
	}

	for _, c := range candidates {
		switch c.Label {
		case "Fee Payment":
			if strings.Contains(lower, "fee") {
				return pick(c.Label, 0.9), nil
			}
		case "AU Transfer":
			if strings.Contains(lower, "transfer") {
				return pick(c.Label, 0.8), nil
			}
		case "Ongoing Fee":
			return pick(c.Label, 0.7), nil
		}
	}
	return pick(candidates[0].Label, 0.3), nil
}

func newRuntime(t *testing.T) *workflow.Runtime {
	t.Helper()
	ix, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("taxonomy.Load() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &workflow.Runtime{
		Engine: engine.New(keywordScorer{}, ix, extract.New(ix, logger), logger),
		Reader: reader.New(logger),
		Dedupe: dedupe.NewMemory(),
		Logger: logger,
	}
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies a single-request document", func(t *testing.T) {
		rt := newRuntime(t)
		dir := t.TempDir()
		path := writeDoc(t, dir, "fee.txt",
			"Please process the ongoing fee payment for Deal Name: Alpha, Amount: $1,200.00, Transaction Date: 03/18/2025, Account Number: 123456.")

		result, err := workflow.Execute(ctx, rt, path)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if result.Source != "fee.txt" {
			t.Errorf("Source = %q", result.Source)
		}
		if result.DuplicateOf != "" {
			t.Errorf("DuplicateOf = %q, want empty", result.DuplicateOf)
		}
		if len(result.Records) != 1 {
			t.Fatalf("got %d records, want 1: %+v", len(result.Records), result.Records)
		}

		rec := result.Records[0]
		if rec.RequestType != "Fee Payment" || !rec.IsPrimary {
			t.Errorf("record = %+v, want primary Fee Payment", rec)
		}
		if rec.AssignedTeam != "Fees Team" {
			t.Errorf("assigned team = %q, want Fees Team", rec.AssignedTeam)
		}
		if rec.ExtractedData["amount"] != "1200.00" {
			t.Errorf("amount = %q, want 1200.00", rec.ExtractedData["amount"])
		}
	})

	t.Run("multi-request document yields one record per request", func(t *testing.T) {
		rt := newRuntime(t)
		dir := t.TempDir()
		path := writeDoc(t, dir, "multi.txt",
			"Please process the ongoing fee payment for Deal Alpha today.\n\nAlso, please transfer the allocation units for Deal Beta.")

		result, err := workflow.Execute(ctx, rt, path)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(result.Records) != 2 {
			t.Fatalf("got %d records, want 2: %+v", len(result.Records), result.Records)
		}

		var primaries int
		for _, rec := range result.Records {
			if rec.IsPrimary {
				primaries++
			}
		}
		if primaries != 1 {
			t.Errorf("got %d primary records, want exactly 1", primaries)
		}

		if result.Records[0].RequestType != "Fee Payment" {
			t.Errorf("first record type = %q", result.Records[0].RequestType)
		}
		if result.Records[1].RequestType != "AU Transfer" {
			t.Errorf("second record type = %q", result.Records[1].RequestType)
		}
	})

	t.Run("second identical document is a duplicate", func(t *testing.T) {
		rt := newRuntime(t)
		dir := t.TempDir()
		content := "Please process the ongoing fee payment for Deal Name: Alpha, Amount: $1,200.00."
		first := writeDoc(t, dir, "first.txt", content)
		second := writeDoc(t, dir, "second.txt", content)

		if _, err := workflow.Execute(ctx, rt, first); err != nil {
			t.Fatalf("Execute(first) error = %v", err)
		}

		result, err := workflow.Execute(ctx, rt, second)
		if err != nil {
			t.Fatalf("Execute(second) error = %v", err)
		}

		if result.DuplicateOf != "first.txt" {
			t.Errorf("DuplicateOf = %q, want first.txt", result.DuplicateOf)
		}
		if len(result.Records) != 1 {
			t.Fatalf("got %d records, want 1", len(result.Records))
		}

		rec := result.Records[0]
		if rec.RequestType != engine.TypeDuplicate || rec.Confidence != 1.0 || !rec.IsPrimary {
			t.Errorf("record = %+v, want primary Duplicate with confidence 1.0", rec)
		}
		if rec.AssignedTeam != "" {
			t.Errorf("duplicate record should stay unrouted, got %q", rec.AssignedTeam)
		}
	})

	t.Run("unreadable document fails with ErrUnreadable", func(t *testing.T) {
		rt := newRuntime(t)
		dir := t.TempDir()
		path := writeDoc(t, dir, "corrupt.eml", "this is not an email")

		_, err := workflow.Execute(ctx, rt, path)
		if !errors.Is(err, workflow.ErrUnreadable) {
			t.Errorf("Execute() error = %v, want ErrUnreadable", err)
		}
	})

	t.Run("readable but empty document yields the NA sentinel", func(t *testing.T) {
		rt := newRuntime(t)
		dir := t.TempDir()
		path := writeDoc(t, dir, "blank.txt", "   \n\n  ")

		result, err := workflow.Execute(ctx, rt, path)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(result.Records) != 1 {
			t.Fatalf("got %d records, want 1: %+v", len(result.Records), result.Records)
		}

		rec := result.Records[0]
		if rec.RequestType != engine.TypeNA || !rec.IsPrimary {
			t.Errorf("record = %+v, want primary NA sentinel", rec)
		}
		if rec.Confidence != 0 {
			t.Errorf("confidence = %v, want 0", rec.Confidence)
		}
		if rec.Reason != "No meaningful content found." {
			t.Errorf("reason = %q", rec.Reason)
		}
	})
}
