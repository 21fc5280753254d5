// Package infrastructure provides core service initialization for application
// startup. It assembles the common dependencies (logging, database, storage,
// and the triage workflow runtime) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/redis/go-redis/v9"

	"github.com/opsdesk/mailtriage/internal/config"
	"github.com/opsdesk/mailtriage/internal/dedupe"
	"github.com/opsdesk/mailtriage/internal/engine"
	"github.com/opsdesk/mailtriage/internal/extract"
	"github.com/opsdesk/mailtriage/internal/reader"
	"github.com/opsdesk/mailtriage/internal/scorer"
	"github.com/opsdesk/mailtriage/internal/taxonomy"
	"github.com/opsdesk/mailtriage/internal/workflow"
	"github.com/opsdesk/mailtriage/pkg/database"
	"github.com/opsdesk/mailtriage/pkg/lifecycle"
	"github.com/opsdesk/mailtriage/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and the classification runtime.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Agent     gaconfig.AgentConfig
	Workflow  *workflow.Runtime
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// A malformed request-type taxonomy fails startup here.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	rt, err := NewWorkflowRuntime(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Agent:     cfg.Agent,
		Workflow:  rt,
	}, nil
}

// NewWorkflowRuntime builds the classification workflow runtime: taxonomy,
// scoring agent, extraction, document reader, and the configured
// duplicate-hash backend. It is shared by the server and the batch CLI.
func NewWorkflowRuntime(cfg *config.Config, logger *slog.Logger) (*workflow.Runtime, error) {
	ix, err := taxonomy.Load()
	if err != nil {
		return nil, fmt.Errorf("taxonomy init failed: %w", err)
	}

	set, err := newDedupeSet(&cfg.Pipeline.Dedupe)
	if err != nil {
		return nil, fmt.Errorf("dedupe init failed: %w", err)
	}

	sc := scorer.NewAgent(cfg.Agent, cfg.Pipeline.ScorerTimeoutDuration(), logger)

	return &workflow.Runtime{
		Engine: engine.New(sc, ix, extract.New(ix, logger), logger),
		Reader: reader.New(logger),
		Dedupe: set,
		Logger: logger.With("workflow", "classify"),
	}, nil
}

func newDedupeSet(cfg *config.DedupeConfig) (dedupe.Set, error) {
	switch cfg.Backend {
	case config.DedupeMemory:
		return dedupe.NewMemory(), nil
	case config.DedupeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return dedupe.NewRedis(client, cfg.RedisKey, cfg.RedisTTLDuration()), nil
	default:
		return nil, fmt.Errorf("unknown dedupe backend: %s", cfg.Backend)
	}
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
