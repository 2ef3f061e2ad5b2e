package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_catalog/internal/domain"
)

type ItemCache interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	SetItem(ctx context.Context, itemID string, item *domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error
}

type BagCache interface {
	GetBag(ctx context.Context, userID string) (*domain.Bag, error)
	SetBag(ctx context.Context, userID string, bag *domain.Bag) error
	DeleteBag(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
