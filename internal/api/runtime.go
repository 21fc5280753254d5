package api

import (
	"github.com/opsdesk/mailtriage/internal/config"
	"github.com/opsdesk/mailtriage/internal/infrastructure"
	"github.com/opsdesk/mailtriage/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Agent:     infra.Agent,
			Workflow:  infra.Workflow,
		},
		Pagination: cfg.API.Pagination,
	}
}
