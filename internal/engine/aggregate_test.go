package engine_test

import (
	"reflect"
	"testing"

	"github.com/opsdesk/mailtriage/internal/engine"
)

func record(requestType, subType string, confidence float64) engine.Record {
	return engine.Record{
		RequestType:    requestType,
		SubRequestType: subType,
		Confidence:     confidence,
		ExtractedData:  map[string]string{},
	}
}

func TestAggregate(t *testing.T) {
	t.Run("collapses repeated pairs to first occurrence", func(t *testing.T) {
		first := record("Fee Payment", "Ongoing Fee", 0.8)
		first.ExtractedData["deal_name"] = "Alpha"
		second := record("Fee Payment", "Ongoing Fee", 0.6)
		second.ExtractedData["deal_name"] = "Beta"

		got := engine.Aggregate([]engine.Record{first, second})
		if len(got) != 1 {
			t.Fatalf("got %d records, want 1", len(got))
		}
		if got[0].Confidence != 0.8 || got[0].ExtractedData["deal_name"] != "Alpha" {
			t.Errorf("kept record = %+v, want the first occurrence", got[0])
		}
	})

	t.Run("same type different subtype both survive", func(t *testing.T) {
		got := engine.Aggregate([]engine.Record{
			record("Money Movement - Inbound", "Principal", 0.7),
			record("Money Movement - Inbound", "Interest", 0.6),
		})
		if len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}
	})

	t.Run("highest confidence becomes primary", func(t *testing.T) {
		got := engine.Aggregate([]engine.Record{
			record("Adjustment", engine.TypeNA, 0.5),
			record("Fee Payment", "Ongoing Fee", 0.9),
			record("AU Transfer", engine.TypeNA, 0.7),
		})

		var primaries []string
		for _, r := range got {
			if r.IsPrimary {
				primaries = append(primaries, r.RequestType)
			}
		}
		if len(primaries) != 1 || primaries[0] != "Fee Payment" {
			t.Errorf("primaries = %v, want [Fee Payment]", primaries)
		}
	})

	t.Run("ties break to earliest", func(t *testing.T) {
		got := engine.Aggregate([]engine.Record{
			record("Adjustment", engine.TypeNA, 0.8),
			record("Fee Payment", "Ongoing Fee", 0.8),
		})
		if !got[0].IsPrimary || got[1].IsPrimary {
			t.Errorf("primary flags = [%v %v], want earliest record primary", got[0].IsPrimary, got[1].IsPrimary)
		}
	})

	t.Run("NA records do not win primacy", func(t *testing.T) {
		na := record(engine.TypeNA, engine.TypeNA, 0)
		na.Reason = "Classification failed: timeout"
		got := engine.Aggregate([]engine.Record{na, record("Adjustment", engine.TypeNA, 0.4)})

		for _, r := range got {
			if r.RequestType == engine.TypeNA && r.IsPrimary {
				t.Errorf("NA record flagged primary: %+v", r)
			}
			if r.RequestType == "Adjustment" && !r.IsPrimary {
				t.Errorf("Adjustment record should be primary: %+v", r)
			}
		}
	})

	t.Run("all NA collapses to single sentinel", func(t *testing.T) {
		na := record(engine.TypeNA, engine.TypeNA, 0)
		na.Reason = "Classification failed: timeout"

		got := engine.Aggregate([]engine.Record{na, record(engine.TypeNA, engine.TypeNA, 0)})
		if len(got) != 1 {
			t.Fatalf("got %d records, want 1", len(got))
		}
		if !got[0].IsPrimary || got[0].Confidence != 0 {
			t.Errorf("sentinel = %+v, want primary with confidence 0", got[0])
		}
		if got[0].Reason != "Classification failed: timeout" {
			t.Errorf("reason = %q, want first record's reason preserved", got[0].Reason)
		}
	})

	t.Run("empty input yields sentinel", func(t *testing.T) {
		got := engine.Aggregate(nil)
		if len(got) != 1 {
			t.Fatalf("got %d records, want 1", len(got))
		}
		if got[0].RequestType != engine.TypeNA || !got[0].IsPrimary {
			t.Errorf("sentinel = %+v", got[0])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		input := []engine.Record{
			record("Fee Payment", "Ongoing Fee", 0.8),
			record("Fee Payment", "Ongoing Fee", 0.6),
			record("Adjustment", engine.TypeNA, 0.5),
			record(engine.TypeNA, engine.TypeNA, 0),
		}

		once := engine.Aggregate(input)
		twice := engine.Aggregate(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Aggregate not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
		}
	})
}
