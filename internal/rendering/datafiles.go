package rendering

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

//go:embed templates/*.ts.tmpl
var templateFiles embed.FS

// DataFiles lists the generated modules in write order.
var DataFiles = []string{"projects.ts", "personal.ts", "skills.ts"}

// Category is one entry of the skillCategories grouping.
type Category struct {
	Name string
	Key  types.SkillCategory
}

// DataFileInput is the data passed to every data-file template.
type DataFileInput struct {
	SourceURL    string
	GeneratedAt  time.Time
	Projects     []types.Project
	PersonalInfo types.PersonalInfo
	Skills       []types.Skill
	Categories   []Category
}

// NewDataFileInput prepares content for rendering. Nil collections render as empty arrays.
func NewDataFileInput(content *types.ExtractedContent, sourceURL string, generatedAt time.Time) *DataFileInput {
	in := &DataFileInput{
		SourceURL:   sourceURL,
		GeneratedAt: generatedAt,
		Projects:    []types.Project{},
		Skills:      []types.Skill{},
	}
	if content != nil {
		if content.Projects != nil {
			in.Projects = content.Projects
		}
		if content.Skills != nil {
			in.Skills = content.Skills
		}
		in.PersonalInfo = content.PersonalInfo
	}
	for _, c := range types.SkillCategories {
		in.Categories = append(in.Categories, Category{Name: strings.ToUpper(string(c[:1])) + string(c[1:]), Key: c})
	}
	return in
}

// RenderDataFile renders one of DataFiles.
func RenderDataFile(name string, in *DataFileInput) (string, error) {
	tmpl, err := parseTemplate(name)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, in); err != nil {
		return "", &TemplateError{File: name, Stage: StageExecute, Cause: err}
	}
	return result.String(), nil
}

// WriteDataFiles renders every data file into dir and returns the written paths.
func WriteDataFiles(dir string, in *DataFileInput) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &RenderError{Op: "mkdir", Path: dir, Cause: err}
	}

	written := make([]string, 0, len(DataFiles))
	for _, name := range DataFiles {
		out, err := RenderDataFile(name, in)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return written, &RenderError{Op: "write", Path: path, Cause: err}
		}
		written = append(written, path)
	}
	return written, nil
}

func parseTemplate(name string) (*template.Template, error) {
	content, err := templateFiles.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return nil, &TemplateError{File: name, Stage: StageLookup, Cause: err}
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"literal": Literal,
		"header":  header,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{File: name, Stage: StageParse, Cause: err}
	}
	return tmpl, nil
}

func header(in *DataFileInput) string {
	line := "// Generated by portfolio_migrate"
	if in.SourceURL != "" {
		line += " from " + EscapeComment(in.SourceURL)
	}
	if !in.GeneratedAt.IsZero() {
		line += " on " + in.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return line + ". Do not edit by hand.\n"
}
