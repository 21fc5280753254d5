package workflow

import "errors"

var (
	// ErrUnreadable indicates the document file could not be opened or
	// parsed; the caller skips it with a warning rather than failing the
	// run. A readable document with no text is not unreadable — it flows
	// through classification and aggregates to the NA sentinel.
	ErrUnreadable = errors.New("document could not be read")
	// ErrStateMissing indicates a node's expected state bag entry is absent
	// or mistyped.
	ErrStateMissing = errors.New("workflow state entry missing")
)
