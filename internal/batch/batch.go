// Package batch processes a directory of documents through the
// classification workflow and persists the results as JSON.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/reader"
	"github.com/opsdesk/mailtriage/internal/workflow"
)

// Run classifies every supported document in dir, in sorted filename order.
// Unsupported and unreadable files are skipped with a warning and are absent
// from the result map; any other per-document failure keeps the document in
// the map with a single failure record so the output stays complete. Only
// directory access failures and context cancellation abort the run.
func Run(ctx context.Context, rt *workflow.Runtime, dir string) (map[string]*workflow.DocumentResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	results := make(map[string]*workflow.DocumentResult)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !reader.Supported(name) {
			rt.Logger.Debug("skipping unsupported file", "file", name)
			continue
		}

		result, err := workflow.Execute(ctx, rt, filepath.Join(dir, name))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, workflow.ErrUnreadable) {
				rt.Logger.Warn("skipping unreadable document", "file", name, "error", err)
				continue
			}
			rt.Logger.Warn("document classification failed", "file", name, "error", err)
			result = &workflow.DocumentResult{
				Source: name,
				Records: []engine.Record{
					engine.FailureRecord(fmt.Sprintf("Classification failed: %v", err)),
				},
			}
		}

		results[name] = result
	}

	return results, nil
}

// WriteResults persists the result map as indented JSON, mirroring the
// in-memory structure exactly.
func WriteResults(path string, results map[string]*workflow.DocumentResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}

	return nil
}
