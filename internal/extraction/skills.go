package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

const (
	sectionProficiency  = 80
	fallbackProficiency = 75
)

var (
	skillSeparators = regexp.MustCompile(`[,•·\n\r]+`)
	digitsOnly      = regexp.MustCompile(`^\d+$`)
	labelPrefix     = regexp.MustCompile(`^[^:]+:`)

	skillPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Skills?|Technologies?|Tools?)[:\s]+([\w\s,•·\n\r-]+?)(?:\n\n|\r\r|$)`),
		regexp.MustCompile(`(?i)(?:Design|Frontend|Backend|Tools?)[:\s]+([\w\s,•·\n\r-]+?)(?:\n\n|\r\r|$)`),
	}
)

// SkillsFromDocument reads the skills section. When it is missing it scans the
// body text for "Skills: a, b" lists, and finally falls back to project technologies.
func (e *Extractor) SkillsFromDocument(doc *goquery.Document) []types.Skill {
	if skills := skillsFromSection(doc); len(skills) > 0 {
		return skills
	}
	e.logger.Debug("No skills section found, scanning page text", nil)

	if skills := skillsFromPatterns(doc); len(skills) > 0 {
		return skills
	}
	e.logger.Debug("No skill lists in page text, using project technologies", nil)

	return skillsFromProjects(e.ProjectsFromDocument(doc))
}

func skillsFromSection(doc *goquery.Document) []types.Skill {
	heading := doc.Find("h2, h3").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return strings.ToLower(text(h)) == "skills"
	}).First()
	if heading.Length() == 0 {
		return nil
	}

	var skills []types.Skill
	heading.Parent().Find("h3").Each(func(_ int, sub *goquery.Selection) {
		section := text(sub)
		if !isSkillSection(section) {
			return
		}
		for next := sub.Next(); next.Length() > 0 && !next.Is(headingSelector); next = next.Next() {
			block := text(next)
			if n := runeLen(block); n <= 2 || n >= 500 {
				continue
			}
			for _, token := range splitSkills(block) {
				skills = appendSkill(skills, token, categorizeSkillBySection(section, token), sectionProficiency)
			}
		}
	})
	return skills
}

func isSkillSection(heading string) bool {
	return containsAny(heading, "Design", "Tools", "Frontend", "Front-end", "Backend", "Back-end")
}

func skillsFromPatterns(doc *goquery.Document) []types.Skill {
	body := doc.Find("body").Text()

	var skills []types.Skill
	for _, pattern := range skillPatterns {
		for _, match := range pattern.FindAllString(body, -1) {
			list := strings.TrimSpace(labelPrefix.ReplaceAllString(match, ""))
			for _, token := range splitSkills(list) {
				skills = appendSkill(skills, token, categorizeSkill(token), fallbackProficiency)
			}
		}
	}
	return skills
}

func skillsFromProjects(projects []types.Project) []types.Skill {
	var skills []types.Skill
	for _, p := range projects {
		for _, tech := range p.Technologies {
			skills = appendSkill(skills, tech, categorizeSkill(tech), fallbackProficiency)
		}
	}
	return skills
}

// splitSkills breaks a list on commas, bullets and newlines and drops tokens
// that cannot be skill names.
func splitSkills(list string) []string {
	var out []string
	for _, token := range skillSeparators.Split(list, -1) {
		token = strings.TrimSpace(token)
		n := runeLen(token)
		if n < 2 || n >= 50 || digitsOnly.MatchString(token) || strings.Contains(token, "http") {
			continue
		}
		out = append(out, token)
	}
	return out
}

// appendSkill adds name unless a skill with that name is already present.
func appendSkill(skills []types.Skill, name string, category types.SkillCategory, proficiency int) []types.Skill {
	for _, s := range skills {
		if s.Name == name {
			return skills
		}
	}
	return append(skills, types.Skill{Name: name, Category: category, Proficiency: types.Proficiency(proficiency)})
}
