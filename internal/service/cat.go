// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/catsfront/catsfront/internal/cache"
	"github.com/catsfront/catsfront/internal/metrics"
	"github.com/catsfront/catsfront/internal/model"
	"github.com/catsfront/catsfront/internal/repository"
)

// Service errors.
var (
	ErrCatNotFound  = errors.New("cat not found")
	ErrInvalidCat   = errors.New("invalid cat")
	ErrInvalidRange = errors.New("invalid page range")
)

// Page defaults match the collection API's query defaults.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Store persists cats. Both the Postgres repository and the in-memory
// store satisfy it.
type Store interface {
	ListCats(ctx context.Context, skip, limit int) ([]model.Cat, error)
	GetCat(ctx context.Context, id int64) (*model.Cat, error)
	CreateCat(ctx context.Context, in model.CatInput) (*model.Cat, error)
	UpdateCat(ctx context.Context, id int64, in model.CatInput) (*model.Cat, error)
	DeleteCat(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Cache is the read-through cache for single cats.
type Cache interface {
	GetCat(ctx context.Context, id int64) (*model.Cat, error)
	SetCat(ctx context.Context, cat *model.Cat) error
	DeleteCat(ctx context.Context, id int64) error
}

// CatService handles cat business logic.
type CatService struct {
	store   Store
	cache   Cache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewCatService creates a new CatService. cache may be nil, in which case
// every read goes to the store.
func NewCatService(store Store, c Cache, recorder metrics.Recorder, logger *slog.Logger) *CatService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatService{
		store:   store,
		cache:   c,
		metrics: recorder,
		logger:  logger,
	}
}

// ListCats returns up to limit cats after skipping skip, in id order.
func (s *CatService) ListCats(ctx context.Context, skip, limit int) ([]model.Cat, error) {
	if skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", ErrInvalidRange)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidRange)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	cats, err := s.store.ListCats(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	if cats == nil {
		cats = []model.Cat{}
	}
	return cats, nil
}

// GetCat returns one cat, consulting the cache first.
func (s *CatService) GetCat(ctx context.Context, id int64) (*model.Cat, error) {
	if s.cache != nil {
		cat, err := s.cache.GetCat(ctx, id)
		switch {
		case err == nil:
			s.metrics.IncCatCacheHit()
			return cat, nil
		case errors.Is(err, cache.ErrCacheMiss):
			s.metrics.IncCatCacheMiss()
		default:
			s.logger.WarnContext(ctx, "cat cache read failed", "cat_id", id, "error", err)
		}
	}

	cat, err := s.store.GetCat(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if s.cache != nil {
		if err := s.cache.SetCat(ctx, cat); err != nil {
			s.logger.WarnContext(ctx, "cat cache fill failed", "cat_id", id, "error", err)
		}
	}
	return cat, nil
}

// CreateCat validates and stores a new cat.
func (s *CatService) CreateCat(ctx context.Context, in model.CatInput) (*model.Cat, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCat, err)
	}

	cat, err := s.store.CreateCat(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create cat: %w", err)
	}

	s.metrics.IncCatCreated()
	return cat, nil
}

// UpdateCat replaces every mutable field of an existing cat.
func (s *CatService) UpdateCat(ctx context.Context, id int64, in model.CatInput) (*model.Cat, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCat, err)
	}

	cat, err := s.store.UpdateCat(ctx, id, in)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.IncCatUpdated()
	s.invalidate(ctx, id)
	return cat, nil
}

// DeleteCat removes a cat.
func (s *CatService) DeleteCat(ctx context.Context, id int64) error {
	if err := s.store.DeleteCat(ctx, id); err != nil {
		return mapStoreError(err)
	}

	s.metrics.IncCatDeleted()
	s.invalidate(ctx, id)
	return nil
}

// Ping checks the backing store.
func (s *CatService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *CatService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	// Stale reads until TTL are acceptable if this fails.
	if err := s.cache.DeleteCat(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "cat cache invalidation failed", "cat_id", id, "error", err)
	}
}

func mapStoreError(err error) error {
	if errors.Is(err, repository.ErrCatNotFound) {
		return ErrCatNotFound
	}
	return err
}
