package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

// Review is a human-oriented check of a finished extraction: it flags content
// that passed validation but is still placeholder or missing.
type Review struct {
	Passed   bool     `json:"passed"`
	Problems []string `json:"problems"`
	Notes    []string `json:"notes"`
}

// ReviewContent inspects content for empty collections and placeholder personal info.
func ReviewContent(content *types.ExtractedContent) Review {
	var r Review
	if content == nil {
		r.Problems = append(r.Problems, "No content to review")
		return r
	}

	if len(content.Projects) == 0 {
		r.Problems = append(r.Problems, "No projects found")
	}
	for i, p := range content.Projects {
		if p.Image == "" {
			r.Notes = append(r.Notes, fmt.Sprintf("Project %d (%s): missing image", i+1, p.Title))
		}
		if p.Description == "" {
			r.Notes = append(r.Notes, fmt.Sprintf("Project %d (%s): missing description", i+1, p.Title))
		}
	}

	info := content.PersonalInfo
	for _, field := range []struct{ key, label, value string }{
		{"name", "Name", info.Name},
		{"title", "Title", info.Title},
		{"bio", "Bio", info.Bio},
		{"email", "Email", info.Email},
	} {
		if field.value == "" || types.IsSentinel(field.key, field.value) {
			r.Problems = append(r.Problems, field.label+" not properly extracted")
		}
	}

	if len(content.Skills) == 0 {
		r.Problems = append(r.Problems, "No skills found")
	}

	r.Passed = len(r.Problems) == 0
	return r
}

// SkillsByCategory groups skill names by category, categories in sorted order.
func SkillsByCategory(skills []types.Skill) []string {
	groups := make(map[types.SkillCategory][]string)
	for _, s := range skills {
		groups[s.Category] = append(groups[s.Category], s.Name)
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf("%s: %s", c, strings.Join(groups[types.SkillCategory(c)], ", ")))
	}
	return lines
}
