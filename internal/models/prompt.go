package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Prompt is a versionable text template belonging to at most one collection.
// Content is the live source of truth; past snapshots live in the version ledger.
type Prompt struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	Description  string    `json:"description,omitempty" db:"description"`
	CollectionID string    `json:"collection_id,omitempty" db:"collection_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
)

var (
	ErrTitleRequired   = errors.New("title must be 1-200 characters")
	ErrContentRequired = errors.New("content must not be empty")
	ErrDescriptionLen  = errors.New("description must be at most 500 characters")
)

// NewID returns an opaque unique identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidatePromptFields checks the create/full-update field constraints.
func ValidatePromptFields(title, content, description string) error {
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrTitleRequired
	}
	if content == "" {
		return ErrContentRequired
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return ErrDescriptionLen
	}
	return nil
}

// ValidatePromptID rejects path IDs outside the opaque-ID alphabet before any
// storage lookup happens.
func ValidatePromptID(id string) error {
	if id == "" || len(id) > 255 {
		return errors.New("invalid ID format")
	}
	for _, r := range id {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !alnum && r != '-' {
			return errors.New("malformed prompt ID")
		}
	}
	return nil
}

// ContentChanged reports whether two content snapshots differ after trimming
// leading and trailing whitespace. The untrimmed text is what gets stored.
func ContentChanged(a, b string) bool {
	return strings.TrimSpace(a) != strings.TrimSpace(b)
}
