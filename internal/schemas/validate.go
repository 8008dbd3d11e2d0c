// Package schemas provides JSON Schema validation for the migration's file artifacts.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/portfolio-migrator/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns "field: message" for every error, in order.
func (ve *ValidationError) Fields() []string {
	out := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		out = append(out, e.Field+": "+e.Message)
	}
	return out
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	return validate(
		schemaAbsPath,
		gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(schemaAbsPath)),
		gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(jsonAbsPath)),
	)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate(
		"(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
}

// ValidateExtractedContent validates a review dump against the bundled
// extracted-content schema.
func ValidateExtractedContent(data []byte) error {
	schema, err := schemafiles.Read(schemafiles.ExtractedContent)
	if err != nil {
		return &SchemaLoadError{Path: schemafiles.ExtractedContent, Message: "schema not bundled", Cause: err}
	}
	return validate(
		schemafiles.ExtractedContent,
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
}

// ValidateExtractedContentFile reads path and validates it with ValidateExtractedContent.
func ValidateExtractedContentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateExtractedContent(data)
}

func validate(schemaName string, schema, document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
