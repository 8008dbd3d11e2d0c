package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-migrator/internal/migration"
	"github.com/jonathan/portfolio-migrator/internal/observability"
	"github.com/jonathan/portfolio-migrator/internal/schemas"
	"github.com/jonathan/portfolio-migrator/internal/validation"
)

var validateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Validate a review dump",
	Long: `Checks a review dump against the extracted-content JSON schema, runs the record validators
on projects, personal info and skills, and reviews the content for placeholders.`,
	RunE: runValidate,
}

var (
	validateContentPath string
	validateStrict      bool
)

func init() {
	validateCommand.Flags().StringVarP(&validateContentPath, "content", "c", "", "Path to extracted-content.json review dump")
	validateCommand.Flags().BoolVar(&validateStrict, "strict", false, "Also fail when the content review finds problems")

	_ = validateCommand.MarkFlagRequired("content")

	rootCmd.AddCommand(validateCommand)
}

func runValidate(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateContentPath); os.IsNotExist(err) {
		return fmt.Errorf("content file not found: %s", validateContentPath)
	}

	if err := schemas.ValidateExtractedContentFile(validateContentPath); err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	content, err := migration.ReadReviewDump(validateContentPath)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	valid := true
	for _, check := range []struct {
		label string
		value any
		fn    func(any) validation.Result
	}{
		{"Projects", content.Projects, validation.ValidateProjects},
		{"Personal info", content.PersonalInfo, validation.ValidatePersonalInfo},
		{"Skills", content.Skills, validation.ValidateSkills},
	} {
		record, err := validation.ToRecord(check.value)
		if err != nil {
			return err
		}
		result := check.fn(record)
		printer.PrintValidation(check.label, result)
		valid = valid && result.IsValid
	}

	review := validation.ReviewContent(content)
	printer.PrintReview(review)

	if !valid {
		return fmt.Errorf("content validation failed")
	}
	if validateStrict && !review.Passed {
		return fmt.Errorf("content review found %d problems", len(review.Problems))
	}
	return nil
}
