package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_catalog/internal/domain"
	"github.com/fjod/go_catalog/internal/repository"
	"github.com/fjod/go_catalog/internal/service"
)

// CatalogAPI is what the item handler needs from the catalog service.
// Consumers define this interface, not the service implementation.
type CatalogAPI interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	CreateItem(ctx context.Context, actor domain.Identity, name string, category []string, price float64) (*domain.Item, error)
	DeleteItem(ctx context.Context, actor domain.Identity, itemID string) error
	RateItem(ctx context.Context, actor domain.Identity, itemID string, value int) (*domain.Item, error)
	AddComment(ctx context.Context, actor domain.Identity, itemID, text string) (*domain.Item, error)
	RemoveComment(ctx context.Context, itemID, commentID string) (*domain.Item, error)
	LikeComment(ctx context.Context, actor domain.Identity, itemID, commentID string) (*domain.Item, error)
	DislikeComment(ctx context.Context, actor domain.Identity, itemID, commentID string) (*domain.Item, error)
}

type ItemHandler struct {
	catalog CatalogAPI
	timeout time.Duration
}

func NewItemHandler(catalog CatalogAPI, timeout time.Duration) *ItemHandler {
	return &ItemHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type CreateItemRequestDTO struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

type RateItemRequestDTO struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

type AddCommentRequestDTO struct {
	Text string `json:"text" validate:"required"`
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.catalog.ListItems(ctx)
	if err != nil {
		respondServerError(w)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.catalog.GetItem(ctx, chi.URLParam(r, "item_id"))
	if err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	var req CreateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessages(err)...)
		return
	}

	// Category arrives as a comma-separated string; store it trimmed.
	var category []string
	for _, c := range strings.Split(req.Category, ",") {
		if c = strings.TrimSpace(c); c != "" {
			category = append(category, c)
		}
	}

	item, err := h.catalog.CreateItem(ctx, actor, req.Name, category, req.Price)
	if err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	if err := h.catalog.DeleteItem(ctx, actor, chi.URLParam(r, "item_id")); err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Item removed"})
}

func (h *ItemHandler) RateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	var req RateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessages(err)...)
		return
	}

	item, err := h.catalog.RateItem(ctx, actor, chi.URLParam(r, "item_id"), req.Value)
	if err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item.Ratings)
}

func (h *ItemHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	var req AddCommentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessages(err)...)
		return
	}

	item, err := h.catalog.AddComment(ctx, actor, chi.URLParam(r, "item_id"), req.Text)
	if err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item.Comments)
}

func (h *ItemHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.catalog.RemoveComment(ctx, chi.URLParam(r, "item_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item.Comments)
}

func (h *ItemHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, h.catalog.LikeComment)
}

func (h *ItemHandler) DislikeComment(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, h.catalog.DislikeComment)
}

func (h *ItemHandler) toggleReaction(w http.ResponseWriter, r *http.Request, toggle func(context.Context, domain.Identity, string, string) (*domain.Item, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	item, err := toggle(ctx, actor, chi.URLParam(r, "item_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		h.respondItemError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item.Comments)
}

func (h *ItemHandler) respondItemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusBadRequest, "Item does not exist")
	case errors.Is(err, repository.ErrCommentNotFound):
		respondError(w, http.StatusBadRequest, "Comment does not exist")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Admin role required")
	default:
		respondServerError(w)
	}
}
