package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/extract"
	"github.com/opsdesk/mailtriage/internal/scorer"
	"github.com/opsdesk/mailtriage/internal/taxonomy"
)

type fakeScorer struct {
	rank func(text string, candidates []scorer.Candidate) ([]scorer.Score, error)
}

func (f *fakeScorer) Rank(_ context.Context, text string, candidates []scorer.Candidate) ([]scorer.Score, error) {
	return f.rank(text, candidates)
}

// isTypeSet reports whether the candidate set is the top-level type set, as
// opposed to a subcategory set.
func isTypeSet(candidates []scorer.Candidate) bool {
	for _, c := range candidates {
		if c.Label == "Adjustment" {
			return true
		}
	}
	return false
}

func newEngine(t *testing.T, sc scorer.System) *engine.Engine {
	t.Helper()
	ix, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("taxonomy.Load() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine.New(sc, ix, extract.New(ix, logger), logger)
}

func rankFixed(mainLabel string, mainConf float64, subLabel string, subConf float64) *fakeScorer {
	return &fakeScorer{rank: func(_ string, candidates []scorer.Candidate) ([]scorer.Score, error) {
		if isTypeSet(candidates) {
			return []scorer.Score{{Label: mainLabel, Confidence: mainConf}}, nil
		}
		return []scorer.Score{{Label: subLabel, Confidence: subConf}}, nil
	}}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("empty segment yields NA", func(t *testing.T) {
		e := newEngine(t, &fakeScorer{rank: func(string, []scorer.Candidate) ([]scorer.Score, error) {
			t.Fatal("scorer should not be invoked for empty segments")
			return nil, nil
		}})

		rec := e.Classify(ctx, "   \n ", "   \n ")
		if rec.RequestType != engine.TypeNA || rec.SubRequestType != engine.TypeNA {
			t.Errorf("record = %+v, want NA/NA", rec)
		}
		if rec.Confidence != 0 || rec.IsPrimary {
			t.Errorf("record = %+v, want confidence 0, not primary", rec)
		}
		if len(rec.ExtractedData) != 0 {
			t.Errorf("extracted data = %v, want empty", rec.ExtractedData)
		}
	})

	t.Run("terminal type uses main confidence", func(t *testing.T) {
		e := newEngine(t, rankFixed("Adjustment", 0.9, "", 0))

		rec := e.Classify(ctx, "Please adjust the fee structure for Deal Name: Vega", "")
		if rec.RequestType != "Adjustment" {
			t.Fatalf("request type = %q", rec.RequestType)
		}
		if rec.SubRequestType != engine.TypeNA {
			t.Errorf("sub request type = %q, want NA", rec.SubRequestType)
		}
		if rec.Confidence != 0.9 {
			t.Errorf("confidence = %v, want 0.9", rec.Confidence)
		}
		if rec.Reason == "" {
			t.Error("reason should carry the matched description")
		}
	})

	t.Run("two-stage confidence is weighted and rounded", func(t *testing.T) {
		e := newEngine(t, rankFixed("Money Movement - Inbound", 0.8, "Principal", 0.6))

		rec := e.Classify(ctx, "Receive principal payment for the loan today.", "")
		if rec.SubRequestType != "Principal" {
			t.Fatalf("sub request type = %q", rec.SubRequestType)
		}
		// 0.7*0.8 + 0.3*0.6
		if rec.Confidence != 0.74 {
			t.Errorf("confidence = %v, want 0.74", rec.Confidence)
		}
	})

	t.Run("scorer failure downgrades to NA", func(t *testing.T) {
		e := newEngine(t, &fakeScorer{rank: func(string, []scorer.Candidate) ([]scorer.Score, error) {
			return nil, errors.New("model unavailable")
		}})

		rec := e.Classify(ctx, "Please process a fee payment for Deal Alpha.", "")
		if rec.RequestType != engine.TypeNA {
			t.Errorf("request type = %q, want NA", rec.RequestType)
		}
		if !strings.Contains(rec.Reason, "model unavailable") {
			t.Errorf("reason = %q, want failure detail", rec.Reason)
		}
	})

	t.Run("subcategory ranking failure downgrades to NA", func(t *testing.T) {
		e := newEngine(t, &fakeScorer{rank: func(_ string, candidates []scorer.Candidate) ([]scorer.Score, error) {
			if isTypeSet(candidates) {
				return []scorer.Score{{Label: "Fee Payment", Confidence: 0.9}}, nil
			}
			return nil, errors.New("timeout")
		}})

		rec := e.Classify(ctx, "Please process a fee payment for Deal Alpha.", "")
		if rec.RequestType != engine.TypeNA {
			t.Errorf("request type = %q, want NA", rec.RequestType)
		}
	})

	t.Run("classifies and extracts inbound payment scenario", func(t *testing.T) {
		e := newEngine(t, rankFixed("Money Movement - Inbound", 0.9, "Principal", 0.8))

		text := "Receive $10,000 principal payment for Deal NOP on 03/18/2025, account 98765."
		rec := e.Classify(ctx, text, text)

		want := map[string]string{
			"deal_name":        "NOP",
			"amount":           "10000.00",
			"transaction_date": "03/18/2025",
			"account_number":   "98765",
		}
		for field, value := range want {
			if rec.ExtractedData[field] != value {
				t.Errorf("extracted %q = %q, want %q", field, rec.ExtractedData[field], value)
			}
		}
	})
}

func TestRouting(t *testing.T) {
	e := newEngine(t, rankFixed("Fee Payment", 0.9, "Ongoing Fee", 0.8))

	t.Run("route is total", func(t *testing.T) {
		if got := e.Route("Fee Payment"); got != "Fees Team" {
			t.Errorf("Route(Fee Payment) = %q", got)
		}
		if got := e.Route(engine.TypeNA); got != taxonomy.TeamUnassigned {
			t.Errorf("Route(NA) = %q, want %q", got, taxonomy.TeamUnassigned)
		}
	})

	t.Run("assign teams skips sentinels", func(t *testing.T) {
		records := []engine.Record{
			{RequestType: "Fee Payment", SubRequestType: "Ongoing Fee"},
			{RequestType: engine.TypeNA, SubRequestType: engine.TypeNA},
			{RequestType: engine.TypeDuplicate, SubRequestType: engine.TypeNA},
		}
		e.AssignTeams(records)

		if records[0].AssignedTeam != "Fees Team" {
			t.Errorf("assigned team = %q, want Fees Team", records[0].AssignedTeam)
		}
		if records[1].AssignedTeam != "" || records[2].AssignedTeam != "" {
			t.Errorf("sentinel records should stay unrouted: %+v", records[1:])
		}
	})
}
