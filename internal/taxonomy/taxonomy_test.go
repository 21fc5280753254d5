package taxonomy_test

import (
	"testing"

	"github.com/opsdesk/mailtriage/internal/taxonomy"
)

func TestLoad(t *testing.T) {
	ix, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("declares all request types in order", func(t *testing.T) {
		want := []string{
			"Adjustment",
			"AU Transfer",
			"Closing Notice",
			"Commitment Change",
			"Fee Payment",
			"Money Movement - Inbound",
			"Money Movement - Outbound",
		}

		types := ix.Types()
		if len(types) != len(want) {
			t.Fatalf("Types() returned %d types, want %d", len(types), len(want))
		}
		for i, name := range want {
			if types[i].Name != name {
				t.Errorf("Types()[%d].Name = %q, want %q", i, types[i].Name, name)
			}
		}
	})

	t.Run("type lookup", func(t *testing.T) {
		rt, ok := ix.Type("Fee Payment")
		if !ok {
			t.Fatal("Type(Fee Payment) not found")
		}
		if !rt.HasSubcategories() {
			t.Error("Fee Payment should have subcategories")
		}
		if len(rt.Subcategories) != 2 {
			t.Errorf("Fee Payment has %d subcategories, want 2", len(rt.Subcategories))
		}
		if _, ok := rt.Subcategory("Ongoing Fee"); !ok {
			t.Error("Fee Payment missing Ongoing Fee subcategory")
		}

		if _, ok := ix.Type("Unknown Type"); ok {
			t.Error("Type(Unknown Type) should not be found")
		}
	})

	t.Run("terminal types have no subcategories", func(t *testing.T) {
		for _, name := range []string{"Adjustment", "AU Transfer"} {
			rt, ok := ix.Type(name)
			if !ok {
				t.Fatalf("Type(%s) not found", name)
			}
			if rt.HasSubcategories() {
				t.Errorf("%s should be terminal", name)
			}
		}
	})

	t.Run("every referenced field has compiled patterns", func(t *testing.T) {
		for _, rt := range ix.Types() {
			for _, field := range rt.Fields {
				patterns := ix.Patterns(field)
				if len(patterns) == 0 {
					t.Errorf("field %q of %q has no patterns", field, rt.Name)
				}
				for _, re := range patterns {
					if re.NumSubexp() != 1 {
						t.Errorf("field %q pattern %q captures %d groups, want 1", field, re, re.NumSubexp())
					}
				}
			}
		}
	})

	t.Run("unknown field has no patterns", func(t *testing.T) {
		if got := ix.Patterns("nonexistent"); got != nil {
			t.Errorf("Patterns(nonexistent) = %v, want nil", got)
		}
	})
}

func TestRoute(t *testing.T) {
	ix, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		requestType string
		want        string
	}{
		{"Adjustment", "Adjustments Team"},
		{"AU Transfer", "Transfers Team"},
		{"Closing Notice", "Closures Team"},
		{"Commitment Change", "Commitments Team"},
		{"Fee Payment", "Fees Team"},
		{"Money Movement - Inbound", "Inbound Payments Team"},
		{"Money Movement - Outbound", "Outbound Payments Team"},
		{"NA", taxonomy.TeamUnassigned},
		{"Duplicate", taxonomy.TeamUnassigned},
		{"", taxonomy.TeamUnassigned},
		{"Something Else", taxonomy.TeamUnassigned},
	}

	for _, tc := range tests {
		t.Run(tc.requestType, func(t *testing.T) {
			if got := ix.Route(tc.requestType); got != tc.want {
				t.Errorf("Route(%q) = %q, want %q", tc.requestType, got, tc.want)
			}
		})
	}
}
