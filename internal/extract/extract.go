// Package extract applies per-request-type field patterns to text and
// normalizes the captured values. Extraction never fails for missing data;
// malformed patterns are a startup configuration error caught by taxonomy
// validation.
package extract

import (
	"log/slog"
	"strings"

	"github.com/opsdesk/mailtriage/internal/taxonomy"
)

// NotFound is the sentinel value for fields with no pattern match.
const NotFound = "Not Found"

// Extractor resolves the expected fields for a request type against segment
// text, falling back to the full document when a segment fragments a
// multi-field statement.
type Extractor struct {
	index  *taxonomy.Index
	logger *slog.Logger
}

// New creates an Extractor over the given taxonomy index.
func New(ix *taxonomy.Index, logger *slog.Logger) *Extractor {
	return &Extractor{
		index:  ix,
		logger: logger.With("system", "extract"),
	}
}

// Extract returns a value for every field the request type expects. Patterns
// are tried in declared order against segmentText first, then against
// fullText; the first match's captured group wins. Unmatched fields are set
// to NotFound. Unknown request types yield an empty map.
func (e *Extractor) Extract(segmentText, fullText, requestType string) map[string]string {
	rt, ok := e.index.Type(requestType)
	if !ok {
		return map[string]string{}
	}

	out := make(map[string]string, len(rt.Fields))
	for _, field := range rt.Fields {
		raw, found := e.match(field, segmentText)
		if !found && fullText != segmentText {
			raw, found = e.match(field, fullText)
		}
		if !found {
			out[field] = NotFound
			continue
		}
		out[field] = e.normalize(field, raw)
	}

	return out
}

func (e *Extractor) match(field, text string) (string, bool) {
	for _, re := range e.index.Patterns(field) {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func (e *Extractor) normalize(field, raw string) string {
	switch field {
	case "amount":
		return e.normalizeAmount(raw)
	case "transaction_date", "expiration_date":
		return e.normalizeDate(raw)
	default:
		return raw
	}
}
