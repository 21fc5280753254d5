package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsdesk/mailtriage/pkg/pagination"
)

// System defines the public contract for classification domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Classification], error)

	Find(ctx context.Context, id uuid.UUID) (*Classification, error)
	ByDocument(ctx context.Context, documentID uuid.UUID) ([]Classification, error)
	Classify(ctx context.Context, documentID uuid.UUID) ([]Classification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
