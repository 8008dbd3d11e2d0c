// Package extraction recovers portfolio projects, personal details, skills and images
// from the source page's HTML using layered DOM heuristics.
package extraction

import "fmt"

// ContentExtractionError reports that one of the concurrent extractions failed.
// Cause is the first failure, usually a typed NETWORK_ERROR or PARSE_ERROR.
type ContentExtractionError struct {
	Message string
	Cause   error
}

func (e *ContentExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("content extraction error: %s", e.Message)
}

func (e *ContentExtractionError) Unwrap() error {
	return e.Cause
}
