package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openshelf-io/catalog/internal/cache"
	"github.com/openshelf-io/catalog/internal/config"
	"github.com/openshelf-io/catalog/internal/eventbus"
	"github.com/openshelf-io/catalog/internal/middleware"
	"github.com/openshelf-io/catalog/internal/middleware/pagination"
	"github.com/openshelf-io/catalog/internal/repository"
)

// itemCountCacheKey is the cache key under which the catalog's total item
// count is stored.
const itemCountCacheKey = "items:count"

type ItemHandler struct {
	Logger *slog.Logger
	Cache  *cache.CountCache
	Events *eventbus.CatalogEventBus
}

func (ih *ItemHandler) RegisterItemHandlers(cfg *config.Config, router *http.ServeMux) {
	router.Handle("GET /items", middleware.CreateStack(
		middleware.LinkHeader(ih.Logger),
	)(http.HandlerFunc(ih.ListItems)))

	router.Handle("POST /items", middleware.CreateStack(
		middleware.IsAuthenticated(cfg),
	)(http.HandlerFunc(ih.CreateItem)))
}

// ListItems returns one page of catalog items together with the total
// document count the Link header middleware paginates against.
func (ih *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	params, err := pagination.ParsePageParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}

	conn, err := middleware.GetDBConnFromContext(r.Context())
	if err != nil {
		ih.Logger.Error("Error while processing request", slog.Any("error", err))
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	tx, err := conn.Begin(r.Context())
	if err != nil {
		ih.Logger.Error("Failed to begin transaction", slog.Any("error", err))
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	defer tx.Rollback(r.Context())
	repo := repository.New(tx)

	total, found := ih.Cache.Get(r.Context(), itemCountCacheKey)
	if !found {
		total, err = repo.CountItems(r.Context())
		if err != nil {
			ih.Logger.Error("Failed to count items", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"error": "We couldn't list the catalog at the moment",
			})
			return
		}
		ih.Cache.Set(r.Context(), itemCountCacheKey, total)
	}

	items, err := repo.ListItems(r.Context(), params.PerPage, params.Offset())
	if err != nil {
		ih.Logger.Error("Failed to list items", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "We couldn't list the catalog at the moment",
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"items":     items,
		"totalDocs": total,
	})
}

// createItemRequest is the body accepted by CreateItem.
type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateItem inserts a new catalog item, invalidates the cached total and
// broadcasts an item.created event.
func (ih *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "name is required"})
		return
	}

	conn, err := middleware.GetDBConnFromContext(r.Context())
	if err != nil {
		ih.Logger.Error("Error while processing request", slog.Any("error", err))
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	tx, err := conn.Begin(r.Context())
	if err != nil {
		ih.Logger.Error("Failed to begin transaction", slog.Any("error", err))
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	defer tx.Rollback(r.Context())
	repo := repository.New(tx)

	item, err := repo.CreateItem(r.Context(), repository.CreateItemParams{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		ih.Logger.Error("Failed to create item", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "We couldn't create the item at the moment",
		})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		ih.Logger.Error("Failed to commit transaction", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "We couldn't create the item at the moment",
		})
		return
	}

	ih.Cache.Invalidate(r.Context(), itemCountCacheKey)

	if ih.Events != nil {
		if err := ih.Events.PublishItemCreated(r.Context(), item); err != nil {
			// The item is already committed; a broker hiccup should not
			// fail the request.
			ih.Logger.Error("Failed to publish item created event",
				slog.String("item_id", item.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}
