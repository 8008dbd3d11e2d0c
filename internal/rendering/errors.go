// Package rendering generates the portfolio UI's TypeScript data modules from extracted content.
package rendering

import "fmt"

// Template stages reported by TemplateError.
const (
	StageLookup  = "unknown data file"
	StageParse   = "parse"
	StageExecute = "execute"
)

// TemplateError reports a data file whose template could not be found, parsed or executed.
type TemplateError struct {
	File  string // data file name, e.g. projects.ts
	Stage string
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %s: %v", e.File, e.Stage, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError reports a filesystem failure while writing data files.
type RenderError struct {
	Op    string // mkdir or write
	Path  string
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }
