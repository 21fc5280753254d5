package workflow

import (
	"log/slog"

	"github.com/opsdesk/mailtriage/internal/dedupe"
	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/reader"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code (the API runtime or the
// batch CLI) and shared across documents within one run.
type Runtime struct {
	Engine *engine.Engine
	Reader reader.System
	Dedupe dedupe.Set
	Logger *slog.Logger
}
