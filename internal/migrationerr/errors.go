// Package migrationerr defines the typed error taxonomy shared by every stage of the content migration.
package migrationerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code discriminates migration errors.
type Code string

const (
	// CodeNetwork covers fetch failures against the source site
	CodeNetwork Code = "NETWORK_ERROR"
	// CodeParse covers HTML/JSON parsing failures
	CodeParse Code = "PARSE_ERROR"
	// CodeValidation covers extracted data that failed validation
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeFileSystem covers local file and directory failures
	CodeFileSystem Code = "FILESYSTEM_ERROR"
	// CodeImageDownload covers image transfer failures
	CodeImageDownload Code = "IMAGE_DOWNLOAD_ERROR"
	// CodeUnknown is used when nothing better matches
	CodeUnknown Code = "UNKNOWN_ERROR"
)

// Error is a migration failure with a code and diagnostic context.
type Error struct {
	Code    Code
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with an arbitrary code.
func New(code Code, message string, context map[string]any) *Error {
	return &Error{Code: code, Message: message, Context: context}
}

// Wrap creates an Error that keeps cause in its chain.
func Wrap(code Code, message string, cause error, context map[string]any) *Error {
	return &Error{Code: code, Message: message, Context: context, Cause: cause}
}

// NewNetworkError reports a failed request. statusCode is 0 when no response arrived.
func NewNetworkError(message, url string, statusCode int) *Error {
	return New(CodeNetwork, message, map[string]any{"url": url, "statusCode": statusCode})
}

// NewParseError reports content that could not be parsed.
func NewParseError(message, source string) *Error {
	return New(CodeParse, message, map[string]any{"source": source})
}

// NewValidationError reports invalid data for a field (or a whole category).
func NewValidationError(message, field string, value any) *Error {
	return New(CodeValidation, message, map[string]any{"field": field, "value": value})
}

// NewFileSystemError reports a failed filesystem operation.
func NewFileSystemError(message, path, operation string) *Error {
	return New(CodeFileSystem, message, map[string]any{"path": path, "operation": operation})
}

// NewImageDownloadError reports a failed image transfer.
func NewImageDownloadError(message, imageURL, destinationPath string) *Error {
	return New(CodeImageDownload, message, map[string]any{"imageUrl": imageURL, "destinationPath": destinationPath})
}

// Classify turns any error into a migration Error.
// Typed errors anywhere in the chain are returned as-is; otherwise the message
// is matched against known keywords and anything unmatched becomes CodeUnknown.
func Classify(err error, context string) *Error {
	if err == nil {
		return nil
	}

	var merr *Error
	if errors.As(err, &merr) {
		return merr
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "fetch") || strings.Contains(msg, "network"):
		return Wrap(CodeNetwork, msg, err, map[string]any{"context": context})
	case strings.Contains(msg, "parse") || strings.Contains(msg, "JSON"):
		return Wrap(CodeParse, msg, err, map[string]any{"context": context})
	case strings.Contains(msg, "ENOENT") || strings.Contains(msg, "file"):
		return Wrap(CodeFileSystem, msg, err, map[string]any{"context": context})
	}

	return Wrap(CodeUnknown, msg, err, map[string]any{
		"originalError": fmt.Sprintf("%T", err),
		"context":       context,
	})
}

// CodeOf returns the code of the first migration Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Code
	}
	return CodeUnknown
}

// IsRecoverable reports whether retrying the failed operation might succeed.
func IsRecoverable(err *Error) bool {
	if err == nil {
		return false
	}
	return err.Code == CodeNetwork || err.Code == CodeImageDownload
}

// UserMessage returns a friendly sentence for the error's code.
func UserMessage(err *Error) string {
	if err == nil {
		return ""
	}
	switch err.Code {
	case CodeNetwork:
		return "Failed to connect to the old portfolio. Please check your internet connection and try again."
	case CodeParse:
		return "Failed to parse content from the old portfolio. The website structure may have changed."
	case CodeValidation:
		return "The extracted data is invalid. Please check the source content."
	case CodeFileSystem:
		return "Failed to save files. Please check file permissions and available disk space."
	case CodeImageDownload:
		return "Failed to download images. Some images may be missing or inaccessible."
	default:
		return "An unexpected error occurred during migration. Please try again."
	}
}
