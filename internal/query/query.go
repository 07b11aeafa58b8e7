// Package query holds pure transforms over prompt snapshots. Nothing here
// touches storage; the same input always produces the same output.
package query

import (
	"sort"
	"strings"

	"github.com/promptlab/promptlab/internal/models"
)

// SortByDate orders prompts by creation time, newest first when descending.
// The input slice is not modified.
func SortByDate(prompts []models.Prompt, descending bool) []models.Prompt {
	out := make([]models.Prompt, len(prompts))
	copy(out, prompts)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FilterByCollection keeps prompts whose collection_id matches exactly.
func FilterByCollection(prompts []models.Prompt, collectionID string) []models.Prompt {
	var out []models.Prompt
	for _, p := range prompts {
		if p.CollectionID == collectionID {
			out = append(out, p)
		}
	}
	return out
}

// Search keeps prompts whose title or description contains the query,
// case-insensitively.
func Search(prompts []models.Prompt, q string) []models.Prompt {
	q = strings.ToLower(q)
	var out []models.Prompt
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			(p.Description != "" && strings.Contains(strings.ToLower(p.Description), q)) {
			out = append(out, p)
		}
	}
	return out
}
