// Package workflow executes the per-document classification pipeline as a
// state graph: read → duplicate gate → classify → aggregate.
package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the classification workflow for a single document file and
// returns its finalized result. Unreadable files fail with ErrUnreadable;
// callers skip those with a warning. Readable documents always produce at
// least one record, the NA sentinel when no text was extracted.
func Execute(ctx context.Context, rt *Runtime, path string) (*DocumentResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeySourcePath, path)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState, path)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("mailtriage-classify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("read", ReadNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("aggregate", AggregateNode(rt)); err != nil {
		return nil, err
	}

	// read → aggregate directly for unreadable and duplicate documents
	if err := graph.AddEdge("read", "aggregate", skipsClassify); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("read", "classify", state.Not(skipsClassify)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("classify", "aggregate", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("read"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("aggregate"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State, path string) (*DocumentResult, error) {
	if isUnreadable(s) {
		return nil, fmt.Errorf("read: %w: %s", ErrUnreadable, path)
	}

	records, err := recordsValue(s)
	if err != nil {
		return nil, err
	}

	result := &DocumentResult{
		Source:  filepath.Base(path),
		Records: records,
	}

	if origin, ok := duplicateOf(s); ok {
		result.DuplicateOf = origin
	}

	return result, nil
}
