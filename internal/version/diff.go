package version

import "github.com/promptlab/promptlab/internal/models"

// ContentModified is the single change descriptor the diff emits when two
// snapshots differ.
const ContentModified = "content modified"

// Diff compares the content of two version records verbatim (no trimming).
// Equal content yields an empty, non-nil slice; differing content yields
// exactly one descriptor. Comparing a version against itself is always empty.
func Diff(a, b *models.PromptVersion) []string {
	if a.Content == b.Content {
		return []string{}
	}
	return []string{ContentModified}
}
