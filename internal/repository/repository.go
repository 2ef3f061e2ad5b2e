package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_catalog/internal/domain"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrBagNotFound     = errors.New("bag not found")
	ErrItemNotInBag    = errors.New("item not in bag")
)

// ItemRepository defines the catalog data operations.
// Consumers define this interface, not the MongoDB implementation.
type ItemRepository interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	CreateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	UpsertRating(ctx context.Context, itemID, userID string, value int) (*domain.Item, error)
	AddComment(ctx context.Context, itemID string, comment domain.Comment) (*domain.Item, error)
	RemoveComment(ctx context.Context, itemID, commentID string) (*domain.Item, error)
	LikeComment(ctx context.Context, itemID, commentID, userID string) (*domain.Item, error)
	DislikeComment(ctx context.Context, itemID, commentID, userID string) (*domain.Item, error)
}

// BagRepository defines the bag data operations.
type BagRepository interface {
	GetBag(ctx context.Context, userID string) (*domain.Bag, error)
	GetOrCreate(ctx context.Context, userID, username string) (*domain.Bag, error)
	AddItem(ctx context.Context, userID string, item domain.BagItem) (*domain.Bag, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Bag, error)
	DeleteBag(ctx context.Context, userID string) error
}
