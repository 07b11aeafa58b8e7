package models

import "time"

// PromptVersion is one immutable entry in a prompt's ledger. Records carry a
// full content snapshot, not a delta, and are never edited once written.
// VersionNumber is 1-based, sequential and gapless per prompt.
type PromptVersion struct {
	VersionID      string    `json:"version_id" db:"version_id"`
	PromptID       string    `json:"prompt_id" db:"prompt_id"`
	CollectionID   string    `json:"collection_id" db:"collection_id"`
	VersionNumber  int       `json:"version_number" db:"version_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Content        string    `json:"content" db:"content"`
	ChangesSummary string    `json:"changes_summary" db:"changes_summary"`
}

// VersionRef is the identifying subset returned by createVersion and revert.
type VersionRef struct {
	VersionID     string    `json:"version_id"`
	PromptID      string    `json:"prompt_id"`
	CollectionID  string    `json:"collection_id"`
	VersionNumber int       `json:"version_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// Ref extracts the identifying fields of a version record.
func (v *PromptVersion) Ref() VersionRef {
	return VersionRef{
		VersionID:     v.VersionID,
		PromptID:      v.PromptID,
		CollectionID:  v.CollectionID,
		VersionNumber: v.VersionNumber,
		CreatedAt:     v.CreatedAt,
	}
}
