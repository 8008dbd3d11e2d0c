package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/portfolio-migrator/internal/images"
	"github.com/jonathan/portfolio-migrator/internal/types"
	"github.com/jonathan/portfolio-migrator/internal/validation"
)

func TestPrintContentSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintContentSummary(&types.ExtractedContent{
		Projects: []types.Project{{ID: 1, Title: "HYPD"}},
		PersonalInfo: types.PersonalInfo{
			Name:  "Jane Doe",
			Title: types.DefaultTitle,
			Email: "jane@example.com",
		},
		PersonalInfoFallbacks: []string{"title"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED CONTENT")
	assert.Contains(t, output, "Projects: 1")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "placeholders used for: title")
	assert.NotContains(t, output, "Location:")
}

func TestPrintContentSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintContentSummary(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintProjects(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProjects([]types.Project{{
		ID:           1,
		Title:        "HYPD",
		Category:     "mobile",
		Technologies: []string{"React Native", "Node.js"},
		LiveURL:      "https://www.behance.net/gallery/1/HYPD",
	}})
	output := buf.String()

	assert.Contains(t, output, "TITLE")
	assert.Contains(t, output, "HYPD")
	assert.Contains(t, output, "React Native, Node.js")
	assert.Contains(t, output, "╭")
}

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSkills([]types.Skill{
		{Name: "React", Category: types.SkillFrontend},
		{Name: "Figma", Category: types.SkillDesign},
	})
	output := buf.String()

	assert.Contains(t, output, "SKILLS BY CATEGORY")
	assert.Contains(t, output, "frontend: React")
	assert.Contains(t, output, "design: Figma")
}

func TestPrintValidation(t *testing.T) {
	tests := []struct {
		name     string
		result   validation.Result
		expected []string
	}{
		{
			name:     "valid",
			result:   validation.Result{IsValid: true},
			expected: []string{"✅ Skills: valid"},
		},
		{
			name:     "warnings",
			result:   validation.Result{IsValid: true, Warnings: []string{"Skill 1: Proficiency should be between 0 and 100"}},
			expected: []string{"SKILLS: VALID WITH WARNINGS", "⚠ Skill 1"},
		},
		{
			name:     "invalid",
			result:   validation.Result{Errors: []string{"Skill 2: Skill name is required"}},
			expected: []string{"SKILLS: INVALID", "✗ Skill 2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintValidation("Skills", tt.result)
			for _, want := range tt.expected {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrintReview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReview(validation.Review{Passed: true})
	assert.Contains(t, buf.String(), "CONTENT READY FOR REVIEW")

	buf.Reset()
	p.PrintReview(validation.Review{
		Problems: []string{"No skills found"},
		Notes:    []string{"Project 1 (HYPD): missing image"},
	})
	output := buf.String()
	assert.Contains(t, output, "CONTENT REVIEW: 1 PROBLEMS")
	assert.Contains(t, output, "✗ No skills found")
	assert.Contains(t, output, "• Project 1 (HYPD): missing image")
}

func TestPrintImageMigration(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintImageMigration(&images.MigrationResult{
		DownloadedImages: 1,
		FailedImages:     1,
		Results: []images.DownloadResult{
			{Success: true, Filepath: "public/images/projects/1/main.jpg"},
			{Error: "HTTP 404: Not Found"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "public/images/projects/1/main.jpg")
	assert.Contains(t, output, "HTTP 404: Not Found")
	assert.Contains(t, output, "⚠ 1 of 2 images failed")
}

func TestPrintImageMigration_Success(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintImageMigration(&images.MigrationResult{Success: true, DownloadedImages: 3})
	assert.Equal(t, "✅ 3 images migrated\n", buf.String())
}

func TestPrintImagePaths(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintImagePaths(images.ImagePaths{
		Projects: map[string]string{"2": "/images/projects/2/main.jpg", "1": "/images/projects/1/main.jpg"},
		Profile:  map[string]string{"avatar": "/images/profile/avatar.jpg"},
	})
	output := buf.String()

	first := strings.Index(output, "project 1")
	second := strings.Index(output, "project 2")
	assert.True(t, first >= 0 && second > first, "projects are listed in id order")
	assert.Contains(t, output, "/images/profile/avatar.jpg")
}
