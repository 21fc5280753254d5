// Package classifications implements the classification domain. It stores and
// queries the per-request records produced by the triage workflow, one row per
// identified request within a document.
package classifications

import (
	"time"

	"github.com/google/uuid"
)

// Classification represents one stored request record for a document.
// Position preserves the record order the workflow produced; IsPrimary marks
// the request selected as the document's primary intent.
type Classification struct {
	ID             uuid.UUID         `json:"id"`
	DocumentID     uuid.UUID         `json:"document_id"`
	Position       int               `json:"position"`
	RequestType    string            `json:"request_type"`
	SubRequestType string            `json:"sub_request_type"`
	Confidence     float64           `json:"confidence"`
	Reason         string            `json:"reason"`
	ExtractedData  map[string]string `json:"extracted_data"`
	IsPrimary      bool              `json:"is_primary"`
	AssignedTeam   *string           `json:"assigned_team"`
	DuplicateOf    *string           `json:"duplicate_of"`
	ModelName      string            `json:"model_name"`
	ProviderName   string            `json:"provider_name"`
	ClassifiedAt   time.Time         `json:"classified_at"`
}
