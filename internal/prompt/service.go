// Package prompt implements prompt CRUD and the lifecycle rules coupling live
// prompt state to the version ledger.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promptlab/promptlab/internal/cache"
	"github.com/promptlab/promptlab/internal/models"
	"github.com/promptlab/promptlab/internal/query"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/version"
)

var (
	ErrPromptNotFound     = errors.New("prompt not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDuplicateTitle     = errors.New("prompt with this title already exists")
	ErrNoContentChange    = errors.New("no content change detected")
)

const cacheTTL = 5 * time.Minute

type Service struct {
	store  store.Store
	ledger *version.Ledger
	cache  *cache.Cache
}

func NewService(s store.Store, l *version.Ledger, c *cache.Cache) *Service {
	return &Service{store: s, ledger: l, cache: c}
}

type CreateRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Description  string `json:"description"`
	CollectionID string `json:"collection_id"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Prompt, error) {
	if err := models.ValidatePromptFields(req.Title, req.Content, req.Description); err != nil {
		return nil, err
	}
	if req.CollectionID != "" {
		if _, err := s.resolveCollection(ctx, req.CollectionID); err != nil {
			return nil, err
		}
	}

	// Duplicate titles are rejected per collection, not globally.
	_, err := s.store.FindPromptByTitle(ctx, req.Title, req.CollectionID)
	if err == nil {
		return nil, ErrDuplicateTitle
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check duplicate title: %w", err)
	}

	now := time.Now().UTC()
	p := &models.Prompt{
		ID:           models.NewID(),
		Title:        req.Title,
		Content:      req.Content,
		Description:  req.Description,
		CollectionID: req.CollectionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreatePrompt(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Prompt, error) {
	var cached models.Prompt
	if err := s.cache.Get(ctx, cacheKey(id), &cached); err == nil {
		return &cached, nil
	}

	p, err := s.store.GetPrompt(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey(id), p, cacheTTL); err != nil {
		return nil, fmt.Errorf("cache prompt %s: %w", id, err)
	}
	return p, nil
}

// List returns prompts newest-first, optionally filtered to one collection
// and/or a case-insensitive search over title and description.
func (s *Service) List(ctx context.Context, collectionID, search string) ([]models.Prompt, error) {
	prompts, err := s.store.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	if collectionID != "" {
		if _, err := s.resolveCollection(ctx, collectionID); err != nil {
			return nil, err
		}
		prompts = query.FilterByCollection(prompts, collectionID)
	}
	if search != "" {
		prompts = query.Search(prompts, search)
	}

	prompts = query.SortByDate(prompts, true)
	if prompts == nil {
		prompts = []models.Prompt{}
	}
	return prompts, nil
}

type UpdateRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Description  string `json:"description"`
	CollectionID string `json:"collection_id"`
}

// Update replaces every base field of the prompt (PUT semantics). ID and
// created_at are preserved; updated_at is refreshed.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*models.Prompt, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidatePromptFields(req.Title, req.Content, req.Description); err != nil {
		return nil, err
	}
	if req.CollectionID != "" {
		if _, err := s.resolveCollection(ctx, req.CollectionID); err != nil {
			return nil, err
		}
	}

	updated := &models.Prompt{
		ID:           existing.ID,
		Title:        req.Title,
		Content:      req.Content,
		Description:  req.Description,
		CollectionID: req.CollectionID,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.store.UpdatePrompt(ctx, updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		return nil, fmt.Errorf("invalidate prompt %s: %w", id, err)
	}
	return updated, nil
}

// PatchRequest carries optional fields; only set pointers overwrite.
type PatchRequest struct {
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	Description  *string `json:"description"`
	CollectionID *string `json:"collection_id"`
}

// ApplyPatch merges set fields of the patch into a copy of the prompt and
// refreshes updated_at. Pure: the input prompt is not modified.
func ApplyPatch(p models.Prompt, req PatchRequest, now time.Time) models.Prompt {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.CollectionID != nil {
		p.CollectionID = *req.CollectionID
	}
	p.UpdatedAt = now
	return p
}

func (s *Service) Patch(ctx context.Context, id string, req PatchRequest) (*models.Prompt, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patched := ApplyPatch(*existing, req, time.Now().UTC())
	if err := models.ValidatePromptFields(patched.Title, patched.Content, patched.Description); err != nil {
		return nil, err
	}
	if req.CollectionID != nil && *req.CollectionID != "" {
		if _, err := s.resolveCollection(ctx, *req.CollectionID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdatePrompt(ctx, &patched); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		return nil, fmt.Errorf("invalidate prompt %s: %w", id, err)
	}
	return &patched, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePrompt(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPromptNotFound
		}
		return err
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		return fmt.Errorf("invalidate prompt %s: %w", id, err)
	}
	return nil
}

func (s *Service) resolveCollection(ctx context.Context, id string) (*models.Collection, error) {
	c, err := s.store.GetCollection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCollectionNotFound
	}
	return c, err
}

func cacheKey(promptID string) string {
	return "prompt:" + promptID
}
