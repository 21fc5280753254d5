package batch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opsdesk/mailtriage/internal/batch"
	"github.com/opsdesk/mailtriage/internal/dedupe"
	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/extract"
	"github.com/opsdesk/mailtriage/internal/reader"
	"github.com/opsdesk/mailtriage/internal/scorer"
	"github.com/opsdesk/mailtriage/internal/taxonomy"
	"github.com/opsdesk/mailtriage/internal/workflow"
)

// failingSet simulates a shared dedupe backend that is unreachable.
type failingSet struct{}

func (failingSet) Seen(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingSet) Add(context.Context, string, string) error { return nil }

type feeScorer struct{}

func (feeScorer) Rank(_ context.Context, _ string, candidates []scorer.Candidate) ([]scorer.Score, error) {
	for _, c := range candidates {
		if c.Label == "Fee Payment" || c.Label == "Ongoing Fee" {
			return []scorer.Score{{Label: c.Label, Confidence: 0.9}}, nil
		}
	}
	return []scorer.Score{{Label: candidates[0].Label, Confidence: 0.5}}, nil
}

func newRuntime(t *testing.T) *workflow.Runtime {
	t.Helper()
	ix, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("taxonomy.Load() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &workflow.Runtime{
		Engine: engine.New(feeScorer{}, ix, extract.New(ix, logger), logger),
		Reader: reader.New(logger),
		Dedupe: dedupe.NewMemory(),
		Logger: logger,
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("processes a directory", func(t *testing.T) {
		rt := newRuntime(t)
		dir := t.TempDir()

		content := "Please process the ongoing fee for Deal Name: Alpha, Amount: $300.00."
		write(t, dir, "a-first.txt", content)
		write(t, dir, "b-dup.txt", content)
		write(t, dir, "broken.eml", "this is not an email")
		write(t, dir, "c-blank.txt", "   \n")
		write(t, dir, "photo.png", "not a document")

		results, err := batch.Run(ctx, rt, dir)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if len(results) != 3 {
			t.Fatalf("got %d results, want 3: %v", len(results), results)
		}

		first, ok := results["a-first.txt"]
		if !ok || first.Records[0].RequestType != "Fee Payment" {
			t.Errorf("a-first.txt = %+v, want Fee Payment", first)
		}

		dup, ok := results["b-dup.txt"]
		if !ok || dup.Records[0].RequestType != engine.TypeDuplicate {
			t.Errorf("b-dup.txt = %+v, want Duplicate", dup)
		}
		if dup.DuplicateOf != "a-first.txt" {
			t.Errorf("DuplicateOf = %q, want a-first.txt", dup.DuplicateOf)
		}

		blank, ok := results["c-blank.txt"]
		if !ok || len(blank.Records) != 1 {
			t.Fatalf("c-blank.txt = %+v, want a single sentinel record", blank)
		}
		if rec := blank.Records[0]; rec.RequestType != engine.TypeNA || !rec.IsPrimary || rec.Confidence != 0 {
			t.Errorf("c-blank.txt record = %+v, want primary NA with confidence 0", rec)
		}

		if _, ok := results["broken.eml"]; ok {
			t.Error("broken.eml should be absent from results")
		}
		if _, ok := results["photo.png"]; ok {
			t.Error("photo.png should be absent from results")
		}
	})

	t.Run("workflow failure yields a failure record", func(t *testing.T) {
		rt := newRuntime(t)
		rt.Dedupe = failingSet{}
		dir := t.TempDir()
		write(t, dir, "fee.txt", "Please process the ongoing fee for Deal Alpha.")

		results, err := batch.Run(ctx, rt, dir)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		result, ok := results["fee.txt"]
		if !ok || len(result.Records) != 1 {
			t.Fatalf("fee.txt = %+v, want a single failure record", result)
		}

		rec := result.Records[0]
		if rec.RequestType != engine.TypeNA || !rec.IsPrimary {
			t.Errorf("record = %+v, want primary NA", rec)
		}
		if !strings.Contains(rec.Reason, "Classification failed") {
			t.Errorf("reason = %q, want classification failure", rec.Reason)
		}
	})

	t.Run("missing directory fails", func(t *testing.T) {
		rt := newRuntime(t)
		if _, err := batch.Run(ctx, rt, filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("Run() should fail for a missing directory")
		}
	})
}

func TestWriteResults(t *testing.T) {
	rt := newRuntime(t)
	dir := t.TempDir()
	write(t, dir, "fee.txt", "Please process the ongoing fee for Deal Name: Alpha, Amount: $300.00.")

	results, err := batch.Run(context.Background(), rt, dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "classification_results.json")
	if err := batch.WriteResults(out, results); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}

	var decoded map[string]*workflow.DocumentResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("results are not valid JSON: %v", err)
	}

	rec := decoded["fee.txt"].Records[0]
	if rec.RequestType != "Fee Payment" || !rec.IsPrimary {
		t.Errorf("round-tripped record = %+v", rec)
	}
	if !strings.Contains(string(data), "\"request_type\"") {
		t.Error("serialized results missing request_type key")
	}
}
