package documents

import (
	"net/url"

	"github.com/opsdesk/mailtriage/pkg/query"
	"github.com/opsdesk/mailtriage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "classifications", "c", "LEFT JOIN", "d.id = c.document_id AND c.is_primary").
	Project("request_type", "PrimaryType").
	Project("confidence", "PrimaryConfidence").
	Project("assigned_team", "AssignedTeam").
	Project("classified_at", "ClassifiedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, ContentType, PrimaryType, and AssignedTeam
// use exact matching. Filename uses case-insensitive contains matching.
type Filters struct {
	Status       *string `json:"status,omitempty"`
	Filename     *string `json:"filename,omitempty"`
	ContentType  *string `json:"content_type,omitempty"`
	PrimaryType  *string `json:"primary_type,omitempty"`
	AssignedTeam *string `json:"assigned_team,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("PrimaryType", f.PrimaryType).
		WhereEquals("AssignedTeam", f.AssignedTeam)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if pt := values.Get("primary_type"); pt != "" {
		f.PrimaryType = &pt
	}

	if at := values.Get("assigned_team"); at != "" {
		f.AssignedTeam = &at
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.PrimaryType,
		&d.PrimaryConfidence,
		&d.AssignedTeam,
		&d.ClassifiedAt,
	)
	return d, err
}
