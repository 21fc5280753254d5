// Package documents implements the document domain: upload, registration,
// metadata management, and blob storage integration for the triage pipeline.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document lifecycle states.
const (
	StatusPending    = "pending"
	StatusClassified = "classified"
	StatusDuplicate  = "duplicate"
)

// Document represents a registered document with its metadata, blob storage
// reference, and a summary of its primary classification when one exists.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	PrimaryType       *string    `json:"primary_type"`
	PrimaryConfidence *float64   `json:"primary_confidence"`
	AssignedTeam      *string    `json:"assigned_team"`
	ClassifiedAt      *time.Time `json:"classified_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is optional and may be extracted
// by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
