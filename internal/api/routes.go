package api

import (
	"net/http"

	"github.com/opsdesk/mailtriage/internal/config"
	"github.com/opsdesk/mailtriage/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)

	routes.Register(
		mux,
		domain.Classifications.Handler().Routes(),
	)

	routes.Register(
		mux,
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	)
}
