package classifications

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/opsdesk/mailtriage/pkg/query"
	"github.com/opsdesk/mailtriage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classifications", "c").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("position", "Position").
	Project("request_type", "RequestType").
	Project("sub_request_type", "SubRequestType").
	Project("confidence", "Confidence").
	Project("reason", "Reason").
	Project("extracted_data", "ExtractedData").
	Project("is_primary", "IsPrimary").
	Project("assigned_team", "AssignedTeam").
	Project("duplicate_of", "DuplicateOf").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("classified_at", "ClassifiedAt")

var defaultSort = query.SortField{
	Field:      "ClassifiedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	RequestType    *string    `json:"request_type,omitempty"`
	SubRequestType *string    `json:"sub_request_type,omitempty"`
	AssignedTeam   *string    `json:"assigned_team,omitempty"`
	IsPrimary      *bool      `json:"is_primary,omitempty"`
	DocumentID     *uuid.UUID `json:"document_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("RequestType", f.RequestType).
		WhereEquals("SubRequestType", f.SubRequestType).
		WhereEquals("AssignedTeam", f.AssignedTeam).
		WhereEquals("IsPrimary", f.IsPrimary).
		WhereEquals("DocumentID", f.DocumentID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if rt := values.Get("request_type"); rt != "" {
		f.RequestType = &rt
	}

	if st := values.Get("sub_request_type"); st != "" {
		f.SubRequestType = &st
	}

	if at := values.Get("assigned_team"); at != "" {
		f.AssignedTeam = &at
	}

	if p := values.Get("is_primary"); p != "" {
		primary := p == "true"
		f.IsPrimary = &primary
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var extractedRaw []byte

	err := s.Scan(
		&c.ID,
		&c.DocumentID,
		&c.Position,
		&c.RequestType,
		&c.SubRequestType,
		&c.Confidence,
		&c.Reason,
		&extractedRaw,
		&c.IsPrimary,
		&c.AssignedTeam,
		&c.DuplicateOf,
		&c.ModelName,
		&c.ProviderName,
		&c.ClassifiedAt,
	)

	if err != nil {
		return c, err
	}

	if len(extractedRaw) > 0 {
		if err := json.Unmarshal(extractedRaw, &c.ExtractedData); err != nil {
			return c, fmt.Errorf("unmarshal extracted_data: %w", err)
		}
	}

	if c.ExtractedData == nil {
		c.ExtractedData = map[string]string{}
	}

	return c, nil
}
