// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/opsdesk/mailtriage/internal/config"
	"github.com/opsdesk/mailtriage/internal/infrastructure"
	"github.com/opsdesk/mailtriage/pkg/middleware"
	"github.com/opsdesk/mailtriage/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	specFn, err := specHandler(cfg)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", specFn)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
