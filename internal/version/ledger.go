// Package version implements the append-only version ledger: one ordered,
// gapless sequence of immutable content snapshots per prompt.
package version

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/promptlab/promptlab/internal/models"
	"github.com/promptlab/promptlab/internal/store"
)

// ErrVersionNotFound is returned when a version ID does not exist among the
// given prompt's records. A version ID belonging to a different prompt does
// not match.
var ErrVersionNotFound = errors.New("version not found")

// Ledger assigns sequential version numbers and answers queries over a
// prompt's history. Appends to the same prompt are serialized so that the
// count-then-increment stays gapless under concurrent callers.
type Ledger struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(s store.Store) *Ledger {
	return &Ledger{
		store: s,
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) promptLock(promptID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[promptID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[promptID] = lk
	}
	return lk
}

// Append writes a new record numbered count+1 for the prompt. The content is
// stored exactly as given; callers gate on whether it actually changed.
// CollectionID comes from the call context, not re-derived from the prompt.
func (l *Ledger) Append(ctx context.Context, promptID, collectionID, content, summary string) (*models.PromptVersion, error) {
	lk := l.promptLock(promptID)
	lk.Lock()
	defer lk.Unlock()

	n, err := l.store.CountVersionsByPrompt(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("count versions for %s: %w", promptID, err)
	}

	v := &models.PromptVersion{
		VersionID:      models.NewID(),
		PromptID:       promptID,
		CollectionID:   collectionID,
		VersionNumber:  n + 1,
		CreatedAt:      time.Now().UTC(),
		Content:        content,
		ChangesSummary: summary,
	}
	if err := l.store.AppendVersion(ctx, v); err != nil {
		return nil, fmt.Errorf("append version for %s: %w", promptID, err)
	}
	return v, nil
}

// ListByPrompt returns the prompt's records in creation order, which is also
// version_number order. A prompt with no history yields an empty slice.
func (l *Ledger) ListByPrompt(ctx context.Context, promptID string) ([]models.PromptVersion, error) {
	versions, err := l.store.ListVersionsByPrompt(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("list versions for %s: %w", promptID, err)
	}
	if versions == nil {
		versions = []models.PromptVersion{}
	}
	return versions, nil
}

// Find resolves a version ID strictly within the given prompt's ledger.
func (l *Ledger) Find(ctx context.Context, promptID, versionID string) (*models.PromptVersion, error) {
	versions, err := l.store.ListVersionsByPrompt(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("list versions for %s: %w", promptID, err)
	}
	for i := range versions {
		if versions[i].VersionID == versionID {
			return &versions[i], nil
		}
	}
	return nil, ErrVersionNotFound
}
