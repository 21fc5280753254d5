package segment_test

import (
	"reflect"
	"testing"

	"github.com/opsdesk/mailtriage/internal/segment"
)

func TestSplit(t *testing.T) {
	t.Run("empty input yields nil", func(t *testing.T) {
		if got := segment.Split(""); got != nil {
			t.Errorf("Split(\"\") = %v, want nil", got)
		}
		if got := segment.Split("   \n\t  "); got != nil {
			t.Errorf("Split(whitespace) = %v, want nil", got)
		}
	})

	t.Run("splits on blank lines", func(t *testing.T) {
		text := "Please process a fee payment for Deal Alpha.\n\nPlease transfer funds for Deal Beta today."
		got := segment.Split(text)
		want := []string{
			"Please process a fee payment for Deal Alpha.",
			"Please transfer funds for Deal Beta today.",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Split() = %v, want %v", got, want)
		}
	})

	t.Run("splits on sentence-initial discourse markers", func(t *testing.T) {
		text := "Please process a fee payment for Deal Alpha. Additionally, please adjust the commitment for Deal Beta."
		got := segment.Split(text)
		if len(got) != 2 {
			t.Fatalf("Split() returned %d segments, want 2: %v", len(got), got)
		}
		if got[0] != "Please process a fee payment for Deal Alpha." {
			t.Errorf("first segment = %q", got[0])
		}
		if got[1] != "Additionally, please adjust the commitment for Deal Beta." {
			t.Errorf("second segment = %q", got[1])
		}
	})

	t.Run("marker is case-insensitive", func(t *testing.T) {
		text := "Receive a principal payment of $500.00 today. FURTHERMORE, close the notice for Deal Gamma."
		got := segment.Split(text)
		if len(got) != 2 {
			t.Fatalf("Split() returned %d segments, want 2: %v", len(got), got)
		}
	})

	t.Run("drops short fragments", func(t *testing.T) {
		text := "Thanks.\n\nPlease process an inbound principal payment for Deal Delta.\n\nRegards,\nPat"
		got := segment.Split(text)
		if len(got) != 1 {
			t.Fatalf("Split() returned %d segments, want 1: %v", len(got), got)
		}
	})

	t.Run("falls back to trimmed whole text", func(t *testing.T) {
		got := segment.Split("  Fee due.  ")
		want := []string{"Fee due."}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Split() = %v, want %v", got, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "Pay the ongoing fee for Deal Alpha.\n\nAlso, increase the commitment for Deal Beta."
		first := segment.Split(text)
		second := segment.Split(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Split() not deterministic: %v vs %v", first, second)
		}
	})
}
