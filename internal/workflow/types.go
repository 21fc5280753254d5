package workflow

import "github.com/opsdesk/mailtriage/internal/engine"

// State bag keys.
const (
	KeySourcePath  = "source_path"
	KeyContent     = "content"
	KeyUnreadable  = "unreadable"
	KeyDuplicateOf = "duplicate_of"
	KeyRecords     = "records"
)

// DocumentResult is the finalized classification output for one document.
type DocumentResult struct {
	Source      string          `json:"source"`
	DuplicateOf string          `json:"duplicate_of,omitempty"`
	Records     []engine.Record `json:"classifications"`
}
