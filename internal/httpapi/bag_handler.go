package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_catalog/internal/domain"
	"github.com/fjod/go_catalog/internal/repository"
)

// BagAPI is what the bag handler needs from the bag service.
type BagAPI interface {
	GetBag(ctx context.Context, actor domain.Identity) (*domain.Bag, error)
	GetOrCreate(ctx context.Context, actor domain.Identity) (*domain.Bag, error)
	AddItem(ctx context.Context, actor domain.Identity, itemID string) (*domain.Bag, error)
	RemoveItem(ctx context.Context, actor domain.Identity, itemID string) (*domain.Bag, error)
	DeleteBag(ctx context.Context, actor domain.Identity) error
}

type BagHandler struct {
	bags    BagAPI
	timeout time.Duration
}

func NewBagHandler(bags BagAPI, timeout time.Duration) *BagHandler {
	return &BagHandler{
		bags:    bags,
		timeout: timeout,
	}
}

func (h *BagHandler) GetBag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	bag, err := h.bags.GetBag(ctx, actor)
	if err != nil {
		if errors.Is(err, repository.ErrBagNotFound) {
			respondError(w, http.StatusBadRequest, "There is no bag associated to this user")
			return
		}
		respondServerError(w)
		return
	}

	respondJSON(w, http.StatusOK, bag)
}

// CreateBag is an upsert: the caller always ends up with exactly one
// bag, created empty on first use.
func (h *BagHandler) CreateBag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	bag, err := h.bags.GetOrCreate(ctx, actor)
	if err != nil {
		respondServerError(w)
		return
	}

	respondJSON(w, http.StatusOK, bag)
}

func (h *BagHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	bag, err := h.bags.AddItem(ctx, actor, chi.URLParam(r, "item_id"))
	if err != nil {
		respondServerError(w)
		return
	}

	respondJSON(w, http.StatusOK, bag)
}

func (h *BagHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	bag, err := h.bags.RemoveItem(ctx, actor, chi.URLParam(r, "item_id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBagNotFound):
			respondError(w, http.StatusBadRequest, "User bag does not exist")
		case errors.Is(err, repository.ErrItemNotInBag):
			respondError(w, http.StatusBadRequest, "Item is not in the bag")
		default:
			respondServerError(w)
		}
		return
	}

	respondJSON(w, http.StatusOK, bag)
}

func (h *BagHandler) DeleteBag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	actor, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token, denied")
		return
	}

	if err := h.bags.DeleteBag(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrBagNotFound) {
			respondError(w, http.StatusBadRequest, "User bag does not exist")
			return
		}
		respondServerError(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Bag removed"})
}
