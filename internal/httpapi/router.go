package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the route table. Catalog reads are public; every
// mutating route goes through the auth middleware before anything else.
func NewRouter(items *ItemHandler, bags *BagHandler, authMW func(http.Handler) http.Handler, logger *slog.Logger, metrics *Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestIDMiddleware)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(NewRecoveryMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/items", func(r chi.Router) {
		r.Get("/", items.ListItems)
		r.Get("/{item_id}", items.GetItem)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", items.CreateItem)
			r.Delete("/{item_id}", items.DeleteItem)
			r.Put("/rating/{item_id}", items.RateItem)
			r.Put("/comment/{item_id}", items.AddComment)
			r.Delete("/comment/{item_id}/{comment_id}", items.RemoveComment)
			r.Put("/comment/like/{item_id}/{comment_id}", items.LikeComment)
			r.Put("/comment/dislike/{item_id}/{comment_id}", items.DislikeComment)
		})
	})

	r.Route("/bag", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", bags.GetBag)
		r.Post("/", bags.CreateBag)
		r.Put("/item/{item_id}", bags.AddItem)
		r.Delete("/{item_id}", bags.RemoveItem)
		r.Delete("/", bags.DeleteBag)
	})

	return r
}
