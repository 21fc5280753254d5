package documents_test

import (
	"net/url"
	"testing"

	"github.com/opsdesk/mailtriage/internal/documents"
)

func TestFiltersFromQuery(t *testing.T) {
	t.Run("populated values", func(t *testing.T) {
		values := url.Values{}
		values.Set("status", documents.StatusClassified)
		values.Set("filename", "wire")
		values.Set("assigned_team", "Fees Team")

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != documents.StatusClassified {
			t.Errorf("Status = %v", f.Status)
		}
		if f.Filename == nil || *f.Filename != "wire" {
			t.Errorf("Filename = %v", f.Filename)
		}
		if f.AssignedTeam == nil || *f.AssignedTeam != "Fees Team" {
			t.Errorf("AssignedTeam = %v", f.AssignedTeam)
		}
		if f.ContentType != nil || f.PrimaryType != nil {
			t.Errorf("unset filters should stay nil: %+v", f)
		}
	})

	t.Run("empty query yields zero filters", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})
		if f != (documents.Filters{}) {
			t.Errorf("Filters = %+v, want zero value", f)
		}
	})
}
