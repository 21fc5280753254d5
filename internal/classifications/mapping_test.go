package classifications_test

import (
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/opsdesk/mailtriage/internal/classifications"
)

func TestFiltersFromQuery(t *testing.T) {
	t.Run("populated values", func(t *testing.T) {
		id := uuid.New()

		values := url.Values{}
		values.Set("request_type", "Money Movement - Inbound")
		values.Set("is_primary", "true")
		values.Set("document_id", id.String())

		f := classifications.FiltersFromQuery(values)

		if f.RequestType == nil || *f.RequestType != "Money Movement - Inbound" {
			t.Errorf("RequestType = %v", f.RequestType)
		}
		if f.IsPrimary == nil || !*f.IsPrimary {
			t.Errorf("IsPrimary = %v", f.IsPrimary)
		}
		if f.DocumentID == nil || *f.DocumentID != id {
			t.Errorf("DocumentID = %v", f.DocumentID)
		}
	})

	t.Run("malformed document_id is ignored", func(t *testing.T) {
		values := url.Values{}
		values.Set("document_id", "not-a-uuid")

		f := classifications.FiltersFromQuery(values)
		if f.DocumentID != nil {
			t.Errorf("DocumentID = %v, want nil", f.DocumentID)
		}
	})

	t.Run("is_primary false", func(t *testing.T) {
		values := url.Values{}
		values.Set("is_primary", "false")

		f := classifications.FiltersFromQuery(values)
		if f.IsPrimary == nil || *f.IsPrimary {
			t.Errorf("IsPrimary = %v, want false", f.IsPrimary)
		}
	})
}
