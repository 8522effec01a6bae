package app

import (
	"net/http"

	"github.com/openshelf-io/catalog/internal/handlers"
)

func (a *App) loadRoutes() http.Handler {
	router := http.NewServeMux()

	// ping handler
	router.HandleFunc("GET /ping", handlers.PingHandler)

	// Catalog item handlers
	itemHandler := &handlers.ItemHandler{
		Logger: a.logger,
		Cache:  a.countCache,
		Events: a.catalogEventBus,
	}
	itemHandler.RegisterItemHandlers(a.config, router)

	return router
}
