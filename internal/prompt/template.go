package prompt

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces {{variable}} placeholders in the content with values from
// vars. Every placeholder must be supplied.
func Render(content string, vars map[string]string) (string, error) {
	missing := findMissingVars(content, vars)
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}

	return variablePattern.ReplaceAllStringFunc(content, func(match string) string {
		key := match[2 : len(match)-2] // strip {{ and }}
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	}), nil
}

// ExtractVariables returns the distinct variable names found in the content,
// in order of first appearance.
func ExtractVariables(content string) []string {
	matches := variablePattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	var vars []string
	for _, m := range matches {
		if len(m) > 1 && !seen[m[1]] {
			vars = append(vars, m[1])
			seen[m[1]] = true
		}
	}
	return vars
}

func findMissingVars(content string, vars map[string]string) []string {
	var missing []string
	for _, v := range ExtractVariables(content) {
		if _, ok := vars[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}

// RenderResult is the render endpoint payload: the substituted content plus
// the variables the template declares.
type RenderResult struct {
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
}

// RenderPrompt renders the prompt's live content with the given variables.
func (s *Service) RenderPrompt(ctx context.Context, id string, vars map[string]string) (*RenderResult, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rendered, err := Render(p.Content, vars)
	if err != nil {
		return nil, err
	}
	return &RenderResult{
		Content:   rendered,
		Variables: ExtractVariables(p.Content),
	}, nil
}
