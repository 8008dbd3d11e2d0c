package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

// fuzzyTitleThreshold is the minimum Jaro-Winkler similarity for a word to count
// as a known project title.
const fuzzyTitleThreshold = 0.93

// matchesKnownTitle reports whether s names one of the known projects, either
// verbatim or as a close misspelling of a whole word.
func (e *Extractor) matchesKnownTitle(s string) bool {
	for _, known := range e.opts.KnownProjectTitles {
		if known != "" && strings.Contains(s, known) {
			return true
		}
	}
	for _, word := range strings.Fields(s) {
		if runeLen(word) < 4 {
			continue
		}
		for _, known := range e.opts.KnownProjectTitles {
			if runeLen(known) < 4 {
				continue
			}
			if matchr.JaroWinkler(strings.ToLower(word), strings.ToLower(known), false) >= fuzzyTitleThreshold {
				return true
			}
		}
	}
	return false
}

var projectTechnologies = []struct {
	key   string
	techs []string
}{
	{"hypd", []string{"UI/UX Design", "Mobile App Design", "Figma", "Prototyping"}},
	{"greencloz", []string{"UI/UX Design", "Web Design", "Figma", "User Research"}},
	{"aero", []string{"UI/UX Design", "VR Design", "AI Integration", "Figma"}},
}

var technologyKeywords = []string{"react", "vue", "angular", "figma", "sketch", "adobe", "ui", "ux", "design", "prototype"}

// technologiesFor combines the fixed per-project table with keywords found in the container text.
func technologiesFor(title, containerText string) []string {
	var techs []string
	lowerTitle := strings.ToLower(title)
	for _, row := range projectTechnologies {
		if strings.Contains(lowerTitle, row.key) {
			techs = append(techs, row.techs...)
			break
		}
	}

	lowerText := strings.ToLower(containerText)
	for _, kw := range technologyKeywords {
		if !strings.Contains(lowerText, kw) || covered(techs, kw) {
			continue
		}
		techs = append(techs, strings.ToUpper(kw[:1])+kw[1:])
	}
	return techs
}

func covered(techs []string, kw string) bool {
	for _, t := range techs {
		if strings.Contains(strings.ToLower(t), kw) {
			return true
		}
	}
	return false
}

func categorizeProject(title, description string) string {
	text := strings.ToLower(title + " " + description)
	switch {
	case containsAny(text, "mobile", "app"):
		return "mobile"
	case containsAny(text, "web", "website"):
		return "web"
	case containsAny(text, "ui", "ux", "design"):
		return "design"
	case containsAny(text, "vr", "ar"):
		return "vr/ar"
	default:
		return "design"
	}
}

var skillKeywords = []struct {
	category types.SkillCategory
	keywords []string
}{
	{types.SkillFrontend, []string{"react", "vue", "angular", "javascript", "typescript", "html", "css", "sass", "scss", "tailwind", "bootstrap", "jquery", "next.js", "nuxt", "svelte"}},
	{types.SkillBackend, []string{"node.js", "express", "django", "flask", "rails", "laravel", "php", "python", "java", "c#", "go", "rust", "mongodb", "mysql", "postgresql", "redis"}},
	{types.SkillDesign, []string{"figma", "sketch", "adobe", "photoshop", "illustrator", "xd", "ui", "ux", "design", "wireframe", "prototype"}},
	{types.SkillTools, []string{"git", "docker", "kubernetes", "aws", "azure", "gcp", "jenkins", "webpack", "vite", "npm", "yarn"}},
}

// categorizeSkill picks a category from keyword substrings, defaulting to design.
func categorizeSkill(name string) types.SkillCategory {
	lower := strings.ToLower(name)
	for _, row := range skillKeywords {
		if containsAny(lower, row.keywords...) {
			return row.category
		}
	}
	return types.SkillDesign
}

// categorizeSkillBySection prefers the sub-heading the skill was listed under.
func categorizeSkillBySection(section, name string) types.SkillCategory {
	lower := strings.ToLower(section)
	switch {
	case strings.Contains(lower, "design"):
		return types.SkillDesign
	case containsAny(lower, "tools", "methods"):
		return types.SkillTools
	case containsAny(lower, "frontend", "front-end"):
		return types.SkillFrontend
	case containsAny(lower, "backend", "back-end"):
		return types.SkillBackend
	}
	return categorizeSkill(name)
}

const projectAncestorSelector = `.project, .portfolio-item, .work-item, [class*="project"]`

func imageType(src, alt string, sel *goquery.Selection) types.ImageType {
	s := strings.ToLower(src)
	a := strings.ToLower(alt)
	switch {
	case strings.Contains(s, "project") || strings.Contains(a, "project"):
		return types.ImageProject
	case containsAny(s, "profile", "avatar") || containsAny(a, "profile", "avatar"):
		return types.ImageProfile
	case containsAny(s, "hero", "banner") || containsAny(a, "hero", "banner"):
		return types.ImageHero
	case sel.Closest(projectAncestorSelector).Length() > 0:
		return types.ImageProject
	}
	return types.ImageGallery
}
