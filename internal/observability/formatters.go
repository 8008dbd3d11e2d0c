// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonathan/portfolio-migrator/internal/images"
	"github.com/jonathan/portfolio-migrator/internal/types"
	"github.com/jonathan/portfolio-migrator/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// cellWidth truncates long table cells
	cellWidth = 40
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func (p *Printer) newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintContentSummary outputs counts and the recovered personal info.
func (p *Printer) PrintContentSummary(content *types.ExtractedContent) {
	if content == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Projects: %d\n", len(content.Projects)))
	sb.WriteString(fmt.Sprintf("Skills:   %d\n", len(content.Skills)))
	sb.WriteString(fmt.Sprintf("Images:   %d\n", len(content.Images)))
	sb.WriteString("\n")

	info := content.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:     %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", info.Title))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
	if info.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", info.Location))
	}

	if len(content.PersonalInfoFallbacks) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ placeholders used for: %s\n", strings.Join(content.PersonalInfoFallbacks, ", ")))
	}

	p.printBox("EXTRACTED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProjects outputs the projects as a table.
func (p *Printer) PrintProjects(projects []types.Project) {
	if len(projects) == 0 {
		return
	}

	t := p.newTable(table.Row{"ID", "Title", "Category", "Technologies", "Live URL"})
	for _, proj := range projects {
		t.AppendRow(table.Row{
			proj.ID,
			truncate(proj.Title, cellWidth),
			proj.Category,
			truncate(strings.Join(proj.Technologies, ", "), cellWidth),
			truncate(proj.LiveURL, cellWidth),
		})
	}
	t.Render()
}

// PrintSkills outputs skill names grouped by category.
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		return
	}

	var sb strings.Builder
	for _, line := range validation.SkillsByCategory(skills) {
		sb.WriteString(fmt.Sprintf("• %s\n", line))
	}
	p.printBox("SKILLS BY CATEGORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs one category's validation result.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(label string, result validation.Result) {
	if result.IsValid && len(result.Warnings) == 0 {
		fmt.Fprintf(p.out, "✅ %s: valid\n", label)
		return
	}

	var sb strings.Builder
	for _, e := range result.Errors {
		sb.WriteString(fmt.Sprintf("✗ %s\n", e))
	}
	count := min(len(result.Warnings), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", result.Warnings[i]))
	}
	if len(result.Warnings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more warnings\n", len(result.Warnings)-maxItemsToShow))
	}

	status := "VALID WITH WARNINGS"
	if !result.IsValid {
		status = "INVALID"
	}
	p.printBox(fmt.Sprintf("%s: %s", strings.ToUpper(label), status), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReview outputs the post-extraction review.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReview(review validation.Review) {
	if review.Passed && len(review.Notes) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ CONTENT READY FOR REVIEW")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for _, problem := range review.Problems {
		sb.WriteString(fmt.Sprintf("✗ %s\n", problem))
	}
	for _, note := range review.Notes {
		sb.WriteString(fmt.Sprintf("• %s\n", note))
	}

	title := "CONTENT REVIEW"
	if !review.Passed {
		title = fmt.Sprintf("CONTENT REVIEW: %d PROBLEMS", len(review.Problems))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImageMigration outputs per-image outcomes and the totals.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintImageMigration(result *images.MigrationResult) {
	if result == nil {
		return
	}

	if len(result.Results) > 0 {
		t := p.newTable(table.Row{"#", "Status", "File", "Error"})
		for i, r := range result.Results {
			status := "ok"
			if !r.Success {
				status = "failed"
			}
			t.AppendRow(table.Row{i + 1, status, truncate(r.Filepath, cellWidth), truncate(r.Error, cellWidth)})
		}
		t.AppendFooter(table.Row{"", "", "downloaded", result.DownloadedImages})
		t.AppendFooter(table.Row{"", "", "failed", result.FailedImages})
		t.Render()
	}

	if result.Success {
		fmt.Fprintf(p.out, "✅ %d images migrated\n", result.DownloadedImages)
		return
	}
	fmt.Fprintf(p.out, "⚠ %d of %d images failed\n", result.FailedImages, result.DownloadedImages+result.FailedImages)
}

// PrintImagePaths outputs the site path of every mapped image.
func (p *Printer) PrintImagePaths(paths images.ImagePaths) {
	if len(paths.Projects) == 0 && len(paths.Profile) == 0 {
		return
	}

	t := p.newTable(table.Row{"Image", "Path"})
	for _, id := range sortedKeys(paths.Projects) {
		t.AppendRow(table.Row{"project " + id, paths.Projects[id]})
	}
	for _, kind := range sortedKeys(paths.Profile) {
		t.AppendRow(table.Row{kind, paths.Profile[kind]})
	}
	t.Render()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
