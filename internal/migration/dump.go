package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
	"github.com/jonathan/portfolio-migrator/internal/types"
)

// DumpFileName is the name of the JSON review dump inside a backup directory.
const DumpFileName = "extracted-content.json"

// WriteReviewDump writes content as indented JSON to
// <dir>/backups/<timestamp>/extracted-content.json and returns the file path.
func WriteReviewDump(dir string, content *types.ExtractedContent, now time.Time) (string, error) {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	backupDir := filepath.Join(dir, "backups", stamp)

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", migrationerr.Wrap(migrationerr.CodeFileSystem, "failed to create backup directory", err,
			map[string]any{"path": backupDir, "operation": "mkdir"})
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode extracted content: %w", err)
	}

	path := filepath.Join(backupDir, DumpFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", migrationerr.Wrap(migrationerr.CodeFileSystem, "failed to write review dump", err,
			map[string]any{"path": path, "operation": "write"})
	}
	return path, nil
}

// ReadReviewDump loads a dump written by WriteReviewDump.
func ReadReviewDump(path string) (*types.ExtractedContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, migrationerr.Wrap(migrationerr.CodeFileSystem, "failed to read review dump", err,
			map[string]any{"path": path, "operation": "read"})
	}

	var content types.ExtractedContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, migrationerr.Wrap(migrationerr.CodeParse, "failed to parse review dump", err,
			map[string]any{"source": path})
	}
	return &content, nil
}
