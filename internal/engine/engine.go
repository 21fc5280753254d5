// Package engine classifies request segments against the taxonomy using an
// injected label scorer, aggregates per-document records, and routes
// finalized request types to handling teams.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/opsdesk/mailtriage/internal/extract"
	"github.com/opsdesk/mailtriage/internal/scorer"
	"github.com/opsdesk/mailtriage/internal/taxonomy"
)

// Combined confidence is the weighted average of the top-level and
// subcategory scores, rounded to four decimal places. The weights are fixed
// and applied uniformly to every two-stage classification.
const (
	mainWeight = 0.7
	subWeight  = 0.3
)

// Engine performs two-stage segment classification. Stateless per call;
// safe for concurrent use when the scorer is.
type Engine struct {
	scorer    scorer.System
	index     *taxonomy.Index
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates an Engine over the given scorer, taxonomy, and extractor.
func New(sc scorer.System, ix *taxonomy.Index, ex *extract.Extractor, logger *slog.Logger) *Engine {
	return &Engine{
		scorer:    sc,
		index:     ix,
		extractor: ex,
		logger:    logger.With("system", "engine"),
	}
}

// Classify produces a Record for one segment. The scorer ranks the top-level
// types, then the chosen type's subcategories when present. Any scorer or
// extraction failure is downgraded to an NA record carrying the failure
// reason; it never aborts the remaining segments. fullText is the complete
// document text, used for field-extraction fallback.
func (e *Engine) Classify(ctx context.Context, segmentText, fullText string) Record {
	if strings.TrimSpace(segmentText) == "" {
		return naRecord("No meaningful content found.")
	}

	scores, err := e.scorer.Rank(ctx, segmentText, typeCandidates(e.index.Types()))
	if err != nil {
		e.logger.Warn("type ranking failed", "error", err)
		return naRecord(fmt.Sprintf("Classification failed: %v", err))
	}

	top := scores[0]
	rt, ok := e.index.Type(top.Label)
	if !ok {
		// Rank validates labels against the candidate set, so this indicates
		// a scorer implementation bug.
		e.logger.Warn("ranked label missing from taxonomy", "label", top.Label)
		return naRecord(fmt.Sprintf("Classification failed: unknown type %q", top.Label))
	}

	record := Record{
		RequestType:    rt.Name,
		SubRequestType: TypeNA,
		Confidence:     round4(top.Confidence),
		Reason:         rt.Description,
	}

	if rt.HasSubcategories() {
		subScores, err := e.scorer.Rank(ctx, segmentText, subCandidates(rt))
		if err != nil {
			e.logger.Warn("subcategory ranking failed", "type", rt.Name, "error", err)
			return naRecord(fmt.Sprintf("Classification failed: %v", err))
		}

		topSub := subScores[0]
		record.SubRequestType = topSub.Label
		record.Confidence = round4(mainWeight*top.Confidence + subWeight*topSub.Confidence)
		if sub, ok := rt.Subcategory(topSub.Label); ok {
			record.Reason = rt.Description + " " + sub.Description
		}
	}

	record.ExtractedData = e.extractor.Extract(segmentText, fullText, rt.Name)
	return record
}

// Route maps a finalized request type to its handling team.
func (e *Engine) Route(requestType string) string {
	return e.index.Route(requestType)
}

// AssignTeams sets the routed team on every record with a taxonomy type.
// Sentinel records (NA, Duplicate) are left unrouted.
func (e *Engine) AssignTeams(records []Record) {
	for i := range records {
		switch records[i].RequestType {
		case TypeNA, TypeDuplicate:
		default:
			records[i].AssignedTeam = e.index.Route(records[i].RequestType)
		}
	}
}

func typeCandidates(types []taxonomy.RequestType) []scorer.Candidate {
	candidates := make([]scorer.Candidate, len(types))
	for i, rt := range types {
		candidates[i] = scorer.Candidate{Label: rt.Name, Description: rt.Description}
	}
	return candidates
}

func subCandidates(rt taxonomy.RequestType) []scorer.Candidate {
	candidates := make([]scorer.Candidate, len(rt.Subcategories))
	for i, sub := range rt.Subcategories {
		candidates[i] = scorer.Candidate{Label: sub.Name, Description: sub.Description}
	}
	return candidates
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
