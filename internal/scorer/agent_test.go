package scorer_test

import (
	"errors"
	"testing"

	"github.com/opsdesk/mailtriage/internal/scorer"
)

var candidates = []scorer.Candidate{
	{Label: "Fee Payment", Description: "Payments related to fees."},
	{Label: "Adjustment", Description: "Revisions to existing agreements."},
	{Label: "AU Transfer", Description: "Allocation unit fund transfers."},
}

func TestParseRankings(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		content := `{"rankings": [
			{"label": "Fee Payment", "confidence": 0.91},
			{"label": "Adjustment", "confidence": 0.42},
			{"label": "AU Transfer", "confidence": 0.12}
		]}`

		scores, err := scorer.ParseRankings(content, candidates)
		if err != nil {
			t.Fatalf("ParseRankings() error = %v", err)
		}
		if len(scores) != 3 {
			t.Fatalf("got %d scores, want 3", len(scores))
		}
		if scores[0].Label != "Fee Payment" || scores[0].Confidence != 0.91 {
			t.Errorf("top score = %+v", scores[0])
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		content := "Here is the ranking:\n```json\n{\"rankings\": [{\"label\": \"adjustment\", \"confidence\": 0.8}]}\n```"

		scores, err := scorer.ParseRankings(content, candidates)
		if err != nil {
			t.Fatalf("ParseRankings() error = %v", err)
		}
		if scores[0].Label != "Adjustment" {
			t.Errorf("label = %q, want canonical Adjustment", scores[0].Label)
		}
	})

	t.Run("reorders by confidence", func(t *testing.T) {
		content := `{"rankings": [
			{"label": "Adjustment", "confidence": 0.2},
			{"label": "Fee Payment", "confidence": 0.9}
		]}`

		scores, err := scorer.ParseRankings(content, candidates)
		if err != nil {
			t.Fatalf("ParseRankings() error = %v", err)
		}
		if scores[0].Label != "Fee Payment" {
			t.Errorf("top label = %q, want Fee Payment", scores[0].Label)
		}
	})

	t.Run("clamps confidence into unit interval", func(t *testing.T) {
		content := `{"rankings": [
			{"label": "Fee Payment", "confidence": 1.7},
			{"label": "Adjustment", "confidence": -0.3}
		]}`

		scores, err := scorer.ParseRankings(content, candidates)
		if err != nil {
			t.Fatalf("ParseRankings() error = %v", err)
		}
		if scores[0].Confidence != 1.0 {
			t.Errorf("clamped high = %v, want 1.0", scores[0].Confidence)
		}
		if scores[1].Confidence != 0.0 {
			t.Errorf("clamped low = %v, want 0.0", scores[1].Confidence)
		}
	})

	t.Run("repeated labels keep first score", func(t *testing.T) {
		content := `{"rankings": [
			{"label": "Fee Payment", "confidence": 0.9},
			{"label": "Fee Payment", "confidence": 0.1}
		]}`

		scores, err := scorer.ParseRankings(content, candidates)
		if err != nil {
			t.Fatalf("ParseRankings() error = %v", err)
		}
		if len(scores) != 1 || scores[0].Confidence != 0.9 {
			t.Errorf("scores = %+v, want single 0.9 entry", scores)
		}
	})

	t.Run("rejects labels outside the candidate set", func(t *testing.T) {
		content := `{"rankings": [{"label": "Wire Fraud", "confidence": 0.9}]}`

		_, err := scorer.ParseRankings(content, candidates)
		if !errors.Is(err, scorer.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("rejects non-JSON content", func(t *testing.T) {
		_, err := scorer.ParseRankings("I think this is a fee payment.", candidates)
		if !errors.Is(err, scorer.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("rejects empty ranking", func(t *testing.T) {
		_, err := scorer.ParseRankings(`{"rankings": []}`, candidates)
		if !errors.Is(err, scorer.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})
}
