package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_catalog/internal/cache"
	"github.com/fjod/go_catalog/internal/domain"
	"github.com/fjod/go_catalog/internal/repository"
)

type CatalogService struct {
	repo   repository.ItemRepository
	cache  cache.ItemCache
	logger *slog.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.ItemRepository, cache cache.ItemCache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *CatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		s.logger.Error("repo list items", "error", err)
		return nil, err
	}
	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(itemID, func() (interface{}, error) {
		item, err := s.cache.GetItem(ctx, itemID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get", "item_id", itemID, "error", err) // log cache error but continue
		}

		item, err = s.repo.GetItem(ctx, itemID)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.SetItem(context.Background(), itemID, item); errSet != nil {
				s.logger.Warn("cache set", "item_id", itemID, "error", errSet)
			}
		}()

		return item, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Item), nil
}

// CreateItem adds a catalog entry. Admin only.
func (s *CatalogService) CreateItem(ctx context.Context, actor domain.Identity, name string, category []string, price float64) (*domain.Item, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	item := &domain.Item{
		Name:     name,
		Category: category,
		Price:    price,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.Error("repo create item", "name", name, "error", err)
		return nil, err
	}

	return item, nil
}

// DeleteItem removes a catalog entry. Admin only.
func (s *CatalogService) DeleteItem(ctx context.Context, actor domain.Identity, itemID string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		if !errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Error("repo delete item", "item_id", itemID, "error", err)
		}
		return err
	}

	s.invalidateItem(itemID)
	return nil
}

// RateItem records the caller's rating for an item, replacing any
// rating they gave before. Range checks on value belong to the caller.
func (s *CatalogService) RateItem(ctx context.Context, actor domain.Identity, itemID string, value int) (*domain.Item, error) {
	item, err := s.repo.UpsertRating(ctx, itemID, actor.UserID, value)
	if err != nil {
		if !errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Error("repo upsert rating", "item_id", itemID, "error", err)
		}
		return nil, err
	}

	s.invalidateItem(itemID)
	return item, nil
}

func (s *CatalogService) AddComment(ctx context.Context, actor domain.Identity, itemID, text string) (*domain.Item, error) {
	comment := domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  actor.UserID,
		Author:    actor.Username,
		Text:      text,
		CreatedAt: time.Now(),
		Likes:     []string{},
		Dislikes:  []string{},
	}

	item, err := s.repo.AddComment(ctx, itemID, comment)
	if err != nil {
		if !errors.Is(err, repository.ErrItemNotFound) {
			s.logger.Error("repo add comment", "item_id", itemID, "error", err)
		}
		return nil, err
	}

	s.invalidateItem(itemID)
	return item, nil
}

func (s *CatalogService) RemoveComment(ctx context.Context, itemID, commentID string) (*domain.Item, error) {
	item, err := s.repo.RemoveComment(ctx, itemID, commentID)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("repo remove comment", "item_id", itemID, "comment_id", commentID, "error", err)
		}
		return nil, err
	}

	s.invalidateItem(itemID)
	return item, nil
}

func (s *CatalogService) LikeComment(ctx context.Context, actor domain.Identity, itemID, commentID string) (*domain.Item, error) {
	item, err := s.repo.LikeComment(ctx, itemID, commentID, actor.UserID)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("repo like comment", "item_id", itemID, "comment_id", commentID, "error", err)
		}
		return nil, err
	}

	s.invalidateItem(itemID)
	return item, nil
}

func (s *CatalogService) DislikeComment(ctx context.Context, actor domain.Identity, itemID, commentID string) (*domain.Item, error) {
	item, err := s.repo.DislikeComment(ctx, itemID, commentID, actor.UserID)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("repo dislike comment", "item_id", itemID, "comment_id", commentID, "error", err)
		}
		return nil, err
	}

	s.invalidateItem(itemID)
	return item, nil
}

func (s *CatalogService) invalidateItem(itemID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.DeleteItem(ctx, itemID); err != nil {
		s.logger.Warn("cache invalidate", "item_id", itemID, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrItemNotFound) || errors.Is(err, repository.ErrCommentNotFound)
}
