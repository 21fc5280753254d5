// Package scorer defines the label-ranking dependency of the classification
// engine and its LLM agent-backed implementation.
package scorer

import "context"

// Candidate is a label offered for ranking along with the description the
// scorer uses as classification context.
type Candidate struct {
	Label       string
	Description string
}

// Score pairs a candidate label with the scorer's confidence in [0,1].
type Score struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// System ranks candidate labels against text, strongest match first.
// Implementations must be safe for concurrent invocation.
type System interface {
	Rank(ctx context.Context, text string, candidates []Candidate) ([]Score, error)
}
