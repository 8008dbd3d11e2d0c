// Package schemas holds the JSON Schema documents for the migration's file artifacts.
package schemas

import "embed"

// ExtractedContent is the schema file name for review dumps.
const ExtractedContent = "extracted_content.schema.json"

//go:embed *.schema.json
var files embed.FS

// Read returns the named schema document.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
