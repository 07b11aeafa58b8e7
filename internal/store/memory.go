package store

import (
	"context"
	"sync"

	"github.com/promptlab/promptlab/internal/models"
)

// MemoryStore keeps everything in maps behind one RWMutex. Reads hand out
// copies so callers can't mutate stored state without going through Update.
type MemoryStore struct {
	mu       sync.RWMutex
	prompts  map[string]models.Prompt
	colls    map[string]models.Collection
	versions map[string][]models.PromptVersion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prompts:  make(map[string]models.Prompt),
		colls:    make(map[string]models.Collection),
		versions: make(map[string][]models.PromptVersion),
	}
}

func (s *MemoryStore) CreatePrompt(ctx context.Context, p *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPrompt(ctx context.Context, id string) (*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) UpdatePrompt(ctx context.Context, p *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[p.ID]; !ok {
		return ErrNotFound
	}
	s.prompts[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeletePrompt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[id]; !ok {
		return ErrNotFound
	}
	delete(s.prompts, id)
	delete(s.versions, id)
	return nil
}

func (s *MemoryStore) ListPromptsByCollection(ctx context.Context, collectionID string) ([]models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Prompt
	for _, p := range s.prompts {
		if p.CollectionID == collectionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindPromptByTitle(ctx context.Context, title, collectionID string) (*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.prompts {
		if p.CollectionID == collectionID && p.Title == title {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateCollection(ctx context.Context, c *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colls[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.colls[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListCollections(ctx context.Context) ([]models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Collection, 0, len(s.colls))
	for _, c := range s.colls {
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colls[id]; !ok {
		return ErrNotFound
	}
	delete(s.colls, id)
	for pid, p := range s.prompts {
		if p.CollectionID == id {
			delete(s.prompts, pid)
			delete(s.versions, pid)
		}
	}
	return nil
}

func (s *MemoryStore) CollectionExistsByName(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.colls {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AppendVersion(ctx context.Context, v *models.PromptVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[v.PromptID] = append(s.versions[v.PromptID], *v)
	return nil
}

func (s *MemoryStore) ListVersionsByPrompt(ctx context.Context, promptID string) ([]models.PromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.versions[promptID]
	out := make([]models.PromptVersion, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemoryStore) CountVersionsByPrompt(ctx context.Context, promptID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions[promptID]), nil
}
