package types

// SkillCategory is the coarse classification of a skill.
type SkillCategory string

const (
	SkillFrontend SkillCategory = "frontend"
	SkillBackend  SkillCategory = "backend"
	SkillDesign   SkillCategory = "design"
	SkillTools    SkillCategory = "tools"
)

// SkillCategories lists every valid category in display order.
var SkillCategories = []SkillCategory{SkillFrontend, SkillBackend, SkillDesign, SkillTools}

// Valid reports whether c is one of the known categories.
func (c SkillCategory) Valid() bool {
	for _, known := range SkillCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Skill is a named capability with an optional proficiency in [0,100].
type Skill struct {
	Name        string        `json:"name"`
	Category    SkillCategory `json:"category"`
	Proficiency *int          `json:"proficiency,omitempty"`
}

// Proficiency returns a pointer suitable for Skill.Proficiency.
func Proficiency(p int) *int {
	return &p
}
