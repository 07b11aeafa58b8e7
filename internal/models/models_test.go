package models

import (
	"strings"
	"testing"
)

func TestValidatePromptFields(t *testing.T) {
	if err := ValidatePromptFields("Title", "content", "desc"); err != nil {
		t.Errorf("valid fields rejected: %v", err)
	}
	if err := ValidatePromptFields("", "content", ""); err != ErrTitleRequired {
		t.Errorf("empty title: expected ErrTitleRequired, got %v", err)
	}
	if err := ValidatePromptFields(strings.Repeat("x", 201), "content", ""); err != ErrTitleRequired {
		t.Errorf("long title: expected ErrTitleRequired, got %v", err)
	}
	if err := ValidatePromptFields("T", "", ""); err != ErrContentRequired {
		t.Errorf("empty content: expected ErrContentRequired, got %v", err)
	}
	if err := ValidatePromptFields("T", "c", strings.Repeat("x", 501)); err != ErrDescriptionLen {
		t.Errorf("long description: expected ErrDescriptionLen, got %v", err)
	}
	// Boundaries.
	if err := ValidatePromptFields(strings.Repeat("x", 200), "c", strings.Repeat("y", 500)); err != nil {
		t.Errorf("boundary lengths rejected: %v", err)
	}
}

func TestValidateCollectionFields(t *testing.T) {
	valid := []string{"My Prompts", "AI-Tools", "R&D", "abc123"}
	for _, name := range valid {
		if err := ValidateCollectionFields(name, ""); err != nil {
			t.Errorf("%q rejected: %v", name, err)
		}
	}

	invalid := []string{"", strings.Repeat("x", 101), "bad/name", "semi;colon", "under_score", "émoji"}
	for _, name := range invalid {
		if err := ValidateCollectionFields(name, ""); err == nil {
			t.Errorf("%q accepted, expected rejection", name)
		}
	}
}

func TestValidatePromptID(t *testing.T) {
	if err := ValidatePromptID(NewID()); err != nil {
		t.Errorf("uuid rejected: %v", err)
	}
	if err := ValidatePromptID("abc-123"); err != nil {
		t.Errorf("abc-123 rejected: %v", err)
	}
	if err := ValidatePromptID("has space"); err == nil {
		t.Error("id with space accepted")
	}
	if err := ValidatePromptID("semi;colon"); err == nil {
		t.Error("id with punctuation accepted")
	}
	if err := ValidatePromptID(strings.Repeat("a", 256)); err == nil {
		t.Error("overlong id accepted")
	}
}

func TestContentChanged(t *testing.T) {
	if ContentChanged("Hello", "  Hello  ") {
		t.Error("trim-equal content reported as changed")
	}
	if !ContentChanged("Hello", "Hello World") {
		t.Error("different content reported as unchanged")
	}
	if ContentChanged("", "   ") {
		t.Error("whitespace-only vs empty reported as changed")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
