package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_catalog/internal/cache"
	"github.com/fjod/go_catalog/internal/domain"
	"github.com/fjod/go_catalog/internal/repository"
)

type BagService struct {
	repo   repository.BagRepository
	cache  cache.BagCache
	logger *slog.Logger
	sfg    singleflight.Group
}

func NewBagService(repo repository.BagRepository, cache cache.BagCache, logger *slog.Logger) *BagService {
	return &BagService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *BagService) GetBag(ctx context.Context, actor domain.Identity) (*domain.Bag, error) {
	v, err, _ := s.sfg.Do(actor.UserID, func() (interface{}, error) {
		bag, err := s.cache.GetBag(ctx, actor.UserID)
		if err == nil {
			return bag, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get", "user_id", actor.UserID, "error", err)
		}

		bag, err = s.repo.GetBag(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.SetBag(context.Background(), actor.UserID, bag); errSet != nil {
				s.logger.Warn("cache set", "user_id", actor.UserID, "error", errSet)
			}
		}()

		return bag, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Bag), nil
}

// GetOrCreate returns the caller's bag, creating an empty one on first
// use. Calling it twice yields the same underlying bag.
func (s *BagService) GetOrCreate(ctx context.Context, actor domain.Identity) (*domain.Bag, error) {
	bag, err := s.repo.GetOrCreate(ctx, actor.UserID, actor.Username)
	if err != nil {
		s.logger.Error("repo upsert bag", "user_id", actor.UserID, "error", err)
		return nil, err
	}

	s.invalidateBag(actor.UserID)
	return bag, nil
}

func (s *BagService) AddItem(ctx context.Context, actor domain.Identity, itemID string) (*domain.Bag, error) {
	bag, err := s.repo.AddItem(ctx, actor.UserID, domain.BagItem{ItemID: itemID})
	if err != nil {
		s.logger.Error("repo add bag item", "user_id", actor.UserID, "item_id", itemID, "error", err)
		return nil, err
	}

	s.invalidateBag(actor.UserID)
	return bag, nil
}

func (s *BagService) RemoveItem(ctx context.Context, actor domain.Identity, itemID string) (*domain.Bag, error) {
	bag, err := s.repo.RemoveItem(ctx, actor.UserID, itemID)
	if err != nil {
		if !errors.Is(err, repository.ErrBagNotFound) && !errors.Is(err, repository.ErrItemNotInBag) {
			s.logger.Error("repo remove bag item", "user_id", actor.UserID, "item_id", itemID, "error", err)
		}
		return nil, err
	}

	s.invalidateBag(actor.UserID)
	return bag, nil
}

func (s *BagService) DeleteBag(ctx context.Context, actor domain.Identity) error {
	if err := s.repo.DeleteBag(ctx, actor.UserID); err != nil {
		if !errors.Is(err, repository.ErrBagNotFound) {
			s.logger.Error("repo delete bag", "user_id", actor.UserID, "error", err)
		}
		return err
	}

	s.invalidateBag(actor.UserID)
	return nil
}

func (s *BagService) invalidateBag(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.DeleteBag(ctx, userID); err != nil {
		s.logger.Warn("cache invalidate", "user_id", userID, "error", err)
	}
}
