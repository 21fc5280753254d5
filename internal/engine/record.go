package engine

import "fmt"

// Sentinel request types.
const (
	TypeNA        = "NA"
	TypeDuplicate = "Duplicate"
)

// Record is the per-segment classification output. Records are created by
// Classify, mutated only by Aggregate and AssignTeams, and immutable
// afterward.
type Record struct {
	RequestType    string            `json:"request_type"`
	SubRequestType string            `json:"sub_request_type"`
	Confidence     float64           `json:"confidence"`
	Reason         string            `json:"reason"`
	ExtractedData  map[string]string `json:"extracted_data"`
	IsPrimary      bool              `json:"is_primary"`
	AssignedTeam   string            `json:"assigned_team,omitempty"`
}

func naRecord(reason string) Record {
	return Record{
		RequestType:    TypeNA,
		SubRequestType: TypeNA,
		Confidence:     0,
		Reason:         reason,
		ExtractedData:  map[string]string{},
	}
}

// FailureRecord is the single record emitted for a document whose
// classification run failed outright. It is primary so the document still
// carries a complete result; reason describes the failure.
func FailureRecord(reason string) Record {
	r := naRecord(reason)
	r.IsPrimary = true
	return r
}

// DuplicateRecord is the single record emitted for a document whose content
// hash was already seen in this run. of names the earlier document.
func DuplicateRecord(of string) Record {
	reason := "Duplicate email content"
	if of != "" {
		reason = fmt.Sprintf("Duplicate of %s", of)
	}
	return Record{
		RequestType:    TypeDuplicate,
		SubRequestType: TypeNA,
		Confidence:     1.0,
		Reason:         reason,
		ExtractedData:  map[string]string{},
		IsPrimary:      true,
	}
}
