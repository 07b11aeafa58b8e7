package models

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Collection is a named grouping of prompts. Names are unique across
// collections and limited to a restricted charset.
type Collection struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const MaxCollectionNameLen = 100

var ErrCollectionName = errors.New("name must be 1-100 characters of letters, digits, spaces, hyphens or ampersands")

// ValidateCollectionFields checks collection create constraints.
func ValidateCollectionFields(name, description string) error {
	if name == "" || utf8.RuneCountInString(name) > MaxCollectionNameLen {
		return ErrCollectionName
	}
	for _, r := range name {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !alnum && r != ' ' && r != '-' && r != '&' {
			return ErrCollectionName
		}
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return ErrDescriptionLen
	}
	return nil
}
