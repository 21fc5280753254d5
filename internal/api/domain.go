package api

import (
	"github.com/opsdesk/mailtriage/internal/classifications"
	"github.com/opsdesk/mailtriage/internal/documents"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifications classifications.System
	Documents       documents.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	classificationsSystem := classifications.New(
		runtime.Database.Connection(),
		runtime.Workflow,
		runtime.Agent,
		docsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Classifications: classificationsSystem,
		Documents:       docsSystem,
	}
}
