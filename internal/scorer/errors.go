package scorer

import "errors"

var (
	// ErrNoCandidates indicates Rank was invoked with an empty candidate set.
	ErrNoCandidates = errors.New("no candidate labels provided")
	// ErrScoreFailed indicates the scoring call itself failed (agent
	// construction, inference, or timeout).
	ErrScoreFailed = errors.New("label scoring failed")
	// ErrMalformedResponse indicates the model responded with content that
	// does not resolve to a valid ranking over the candidate set.
	ErrMalformedResponse = errors.New("malformed scorer response")
)
