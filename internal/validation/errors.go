package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
)

// AssertValid converts a failing result into a VALIDATION_ERROR naming context.
// A valid result yields nil.
func AssertValid(result Result, context string) error {
	if result.IsValid {
		return nil
	}
	return migrationerr.New(
		migrationerr.CodeValidation,
		fmt.Sprintf("Validation failed for %s: %s", context, strings.Join(result.Errors, ", ")),
		map[string]any{
			"field":    context,
			"errors":   result.Errors,
			"warnings": result.Warnings,
		},
	)
}
