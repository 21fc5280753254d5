package taxonomy

import "errors"

// ErrInvalidTables indicates the embedded taxonomy tables failed validation.
// This is a startup configuration error and is fatal to the process.
var ErrInvalidTables = errors.New("invalid taxonomy tables")
