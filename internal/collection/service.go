// Package collection implements collection CRUD and the cascade-delete policy:
// deleting a collection deletes every prompt in it, ledgers included. No
// orphan prompts are permitted.
package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promptlab/promptlab/internal/cache"
	"github.com/promptlab/promptlab/internal/models"
	"github.com/promptlab/promptlab/internal/store"
)

var (
	ErrNotFound      = errors.New("collection not found")
	ErrDuplicateName = errors.New("collection with this name already exists")
)

type Service struct {
	store store.Store
	cache *cache.Cache
}

func NewService(s store.Store, c *cache.Cache) *Service {
	return &Service{store: s, cache: c}
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Collection, error) {
	if err := models.ValidateCollectionFields(req.Name, req.Description); err != nil {
		return nil, err
	}

	exists, err := s.store.CollectionExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check collection name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	c := &models.Collection{
		ID:          models.NewID(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Collection, error) {
	c, err := s.store.GetCollection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *Service) List(ctx context.Context) ([]models.Collection, error) {
	colls, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	if colls == nil {
		colls = []models.Collection{}
	}
	return colls, nil
}

// Delete cascades to the collection's prompts and their version ledgers.
// Cached copies of the deleted prompts are dropped so stale reads can't
// outlive the cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	prompts, err := s.store.ListPromptsByCollection(ctx, id)
	if err != nil {
		return fmt.Errorf("enumerate prompts for cascade: %w", err)
	}

	if err := s.store.DeleteCollection(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	keys := make([]string, 0, len(prompts))
	for _, p := range prompts {
		keys = append(keys, "prompt:"+p.ID)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate prompt cache: %w", err)
	}
	return nil
}
