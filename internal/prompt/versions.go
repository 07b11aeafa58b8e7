package prompt

import (
	"context"
	"fmt"
	"time"

	"github.com/promptlab/promptlab/internal/models"
	"github.com/promptlab/promptlab/internal/version"
)

// resolveScoped resolves the collection, then the prompt, and rejects prompts
// whose collection_id does not match the path. A prompt reached through the
// wrong collection is treated as not found.
func (s *Service) resolveScoped(ctx context.Context, collectionID, promptID string) (*models.Prompt, error) {
	if _, err := s.resolveCollection(ctx, collectionID); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if p.CollectionID != collectionID {
		return nil, ErrPromptNotFound
	}
	return p, nil
}

// CreateVersion records a new content snapshot in the prompt's ledger.
// The live prompt content is not touched: creating a version is a history
// event, distinct from editing. Content equal to the live content after
// trimming is rejected so the ledger never records a non-change.
func (s *Service) CreateVersion(ctx context.Context, collectionID, promptID, newContent, summary string) (*models.VersionRef, error) {
	p, err := s.resolveScoped(ctx, collectionID, promptID)
	if err != nil {
		return nil, err
	}
	if !models.ContentChanged(p.Content, newContent) {
		return nil, ErrNoContentChange
	}

	v, err := s.ledger.Append(ctx, promptID, collectionID, newContent, summary)
	if err != nil {
		return nil, err
	}
	ref := v.Ref()
	return &ref, nil
}

// ListVersions returns the prompt's history in version-number order.
func (s *Service) ListVersions(ctx context.Context, collectionID, promptID string) ([]models.PromptVersion, error) {
	if _, err := s.resolveScoped(ctx, collectionID, promptID); err != nil {
		return nil, err
	}
	return s.ledger.ListByPrompt(ctx, promptID)
}

// RevertResult reports either the identifying fields of the version recorded
// by a revert, or that the target already matched the live content.
type RevertResult struct {
	NoChange bool
	Version  *models.VersionRef
}

// RevertToVersion sets the prompt's live content to the target version's
// content and records that change as a new ledger entry. When the target
// already matches the live content (after trimming) nothing is written.
func (s *Service) RevertToVersion(ctx context.Context, collectionID, promptID, targetVersionID string) (*RevertResult, error) {
	p, err := s.resolveScoped(ctx, collectionID, promptID)
	if err != nil {
		return nil, err
	}

	target, err := s.ledger.Find(ctx, promptID, targetVersionID)
	if err != nil {
		return nil, err
	}

	if !models.ContentChanged(p.Content, target.Content) {
		return &RevertResult{NoChange: true}, nil
	}

	previous := *p
	reverted := *p
	reverted.Content = target.Content
	reverted.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdatePrompt(ctx, &reverted); err != nil {
		return nil, fmt.Errorf("revert prompt %s: %w", promptID, err)
	}

	summary := fmt.Sprintf("Reverted to version %s", target.VersionID)
	v, err := s.ledger.Append(ctx, promptID, collectionID, reverted.Content, summary)
	if err != nil {
		// Both-or-neither: a revert must not leave the content changed
		// without its ledger entry.
		if restoreErr := s.store.UpdatePrompt(ctx, &previous); restoreErr != nil {
			return nil, fmt.Errorf("record revert (content restore also failed: %v): %w", restoreErr, err)
		}
		return nil, fmt.Errorf("record revert: %w", err)
	}

	if err := s.cache.Delete(ctx, cacheKey(promptID)); err != nil {
		return nil, fmt.Errorf("invalidate prompt %s: %w", promptID, err)
	}
	ref := v.Ref()
	return &RevertResult{Version: &ref}, nil
}

// DiffVersions compares two of the prompt's versions. Both IDs must belong to
// this prompt's ledger.
func (s *Service) DiffVersions(ctx context.Context, collectionID, promptID, firstID, secondID string) ([]string, error) {
	if _, err := s.resolveScoped(ctx, collectionID, promptID); err != nil {
		return nil, err
	}

	first, err := s.ledger.Find(ctx, promptID, firstID)
	if err != nil {
		return nil, err
	}
	second, err := s.ledger.Find(ctx, promptID, secondID)
	if err != nil {
		return nil, err
	}
	return version.Diff(first, second), nil
}
