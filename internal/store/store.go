// Package store defines the entity-store abstraction the service layer is
// built against, plus its in-memory and Postgres implementations. Prompts and
// collections are keyed by opaque ID; version records form one append-only
// ledger per prompt, keyed by prompt_id.
package store

import (
	"context"
	"errors"

	"github.com/promptlab/promptlab/internal/models"
)

// ErrNotFound is returned for any lookup that matches no row.
var ErrNotFound = errors.New("not found")

type Store interface {
	CreatePrompt(ctx context.Context, p *models.Prompt) error
	GetPrompt(ctx context.Context, id string) (*models.Prompt, error)
	ListPrompts(ctx context.Context) ([]models.Prompt, error)
	// UpdatePrompt replaces the stored record; ErrNotFound if absent.
	UpdatePrompt(ctx context.Context, p *models.Prompt) error
	// DeletePrompt removes the prompt and its version ledger.
	DeletePrompt(ctx context.Context, id string) error
	ListPromptsByCollection(ctx context.Context, collectionID string) ([]models.Prompt, error)
	// FindPromptByTitle matches on exact title within one collection, for
	// duplicate-title detection on create.
	FindPromptByTitle(ctx context.Context, title, collectionID string) (*models.Prompt, error)

	CreateCollection(ctx context.Context, c *models.Collection) error
	GetCollection(ctx context.Context, id string) (*models.Collection, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	// DeleteCollection cascades: every prompt referencing the collection is
	// deleted along with its version ledger, as one unit.
	DeleteCollection(ctx context.Context, id string) error
	CollectionExistsByName(ctx context.Context, name string) (bool, error)

	// AppendVersion stores a fully-populated version record. Numbering is the
	// ledger's job; the store only persists.
	AppendVersion(ctx context.Context, v *models.PromptVersion) error
	// ListVersionsByPrompt returns records in creation order, which equals
	// version_number order. Empty slice if none.
	ListVersionsByPrompt(ctx context.Context, promptID string) ([]models.PromptVersion, error)
	CountVersionsByPrompt(ctx context.Context, promptID string) (int, error)
}
