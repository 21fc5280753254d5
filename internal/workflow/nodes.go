package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/opsdesk/mailtriage/internal/dedupe"
	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/reader"
	"github.com/opsdesk/mailtriage/internal/segment"
)

// ReadNode returns a state node that reads the source document and checks
// the duplicate-hash set. A failed read marks the state unreadable and skips
// the rest of the graph; Execute converts the mark into ErrUnreadable. A
// readable document with empty content proceeds so aggregation can emit the
// NA sentinel. First sightings are recorded; recurrences store the
// originating document under KeyDuplicateOf so the classify stage can be
// bypassed.
func ReadNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		path, err := stringValue(s, KeySourcePath)
		if err != nil {
			return s, fmt.Errorf("read: %w", err)
		}

		content, ok := rt.Reader.Read(ctx, path)
		if !ok {
			return s.Set(KeyUnreadable, true), nil
		}

		hash := dedupe.Hash(content.Subject, content.Body)
		origin, seen, err := rt.Dedupe.Seen(ctx, hash)
		if err != nil {
			return s, fmt.Errorf("read: check duplicate: %w", err)
		}

		if seen {
			rt.Logger.InfoContext(ctx, "duplicate document", "path", path, "origin", origin)
			s = s.Set(KeyDuplicateOf, origin)
		} else if err := rt.Dedupe.Add(ctx, hash, filepath.Base(path)); err != nil {
			return s, fmt.Errorf("read: record hash: %w", err)
		}

		s = s.Set(KeyContent, content)
		return s, nil
	})
}

// ClassifyNode returns a state node that splits the document text into
// segments and classifies them with bounded errgroup concurrency. Segments
// are independent; per-segment failures surface as NA records from the
// engine, so only context cancellation aborts the group.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		content, err := contentValue(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		full := content.Text()
		segments := segment.Split(full)
		records := make([]engine.Record, len(segments))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workerCount(len(segments)))

		for i, seg := range segments {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				records[i] = rt.Engine.Classify(gctx, seg, full)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		rt.Logger.InfoContext(ctx, "classify node complete", "segment_count", len(segments))

		s = s.Set(KeyRecords, records)
		return s, nil
	})
}

// AggregateNode returns a state node that finalizes the document's records:
// the unreadable path passes through untouched, the duplicate path collapses
// to a single Duplicate record, and the normal path aggregates and routes.
func AggregateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if isUnreadable(s) {
			return s, nil
		}

		var records []engine.Record

		if origin, ok := duplicateOf(s); ok {
			records = []engine.Record{engine.DuplicateRecord(origin)}
		} else {
			classified, err := recordsValue(s)
			if err != nil {
				return s, fmt.Errorf("aggregate: %w", err)
			}
			records = engine.Aggregate(classified)
			rt.Engine.AssignTeams(records)
		}

		s = s.Set(KeyRecords, records)
		return s, nil
	})
}

func isDuplicate(s state.State) bool {
	_, ok := duplicateOf(s)
	return ok
}

func isUnreadable(s state.State) bool {
	val, ok := s.Get(KeyUnreadable)
	if !ok {
		return false
	}
	flag, ok := val.(bool)
	return ok && flag
}

// skipsClassify reports whether the read stage resolved the document on its
// own, either as unreadable or as a duplicate.
func skipsClassify(s state.State) bool {
	return isUnreadable(s) || isDuplicate(s)
}

func duplicateOf(s state.State) (string, bool) {
	val, ok := s.Get(KeyDuplicateOf)
	if !ok {
		return "", false
	}
	origin, ok := val.(string)
	return origin, ok
}

func stringValue(s state.State, key string) (string, error) {
	val, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStateMissing, key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not string", ErrStateMissing, key)
	}
	return str, nil
}

func contentValue(s state.State) (reader.Content, error) {
	val, ok := s.Get(KeyContent)
	if !ok {
		return reader.Content{}, fmt.Errorf("%w: %s", ErrStateMissing, KeyContent)
	}
	content, ok := val.(reader.Content)
	if !ok {
		return reader.Content{}, fmt.Errorf("%w: %s is not reader.Content", ErrStateMissing, KeyContent)
	}
	return content, nil
}

func recordsValue(s state.State) ([]engine.Record, error) {
	val, ok := s.Get(KeyRecords)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStateMissing, KeyRecords)
	}
	records, ok := val.([]engine.Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not []engine.Record", ErrStateMissing, KeyRecords)
	}
	return records, nil
}

func workerCount(segmentCount int) int {
	return max(min(runtime.NumCPU(), segmentCount), 1)
}
