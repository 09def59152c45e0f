package mcp

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a parameter validation error. These are caller
// mistakes: they are surfaced inline as error envelopes and never treated as
// fatal or logged as exceptions.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrorCode represents standardized validation error codes
type ValidationErrorCode string

const (
	ErrCodeTooShort   ValidationErrorCode = "TOO_SHORT"
	ErrCodeTooLong    ValidationErrorCode = "TOO_LONG"
	ErrCodeOutOfRange ValidationErrorCode = "OUT_OF_RANGE"
)

var (
	// libraryNameStrip deletes everything a search query must not carry.
	libraryNameStrip = regexp.MustCompile(`[^A-Za-z0-9_.\- ]+`)

	// libraryIDStrip deletes everything an id segment must not carry. A
	// stray '?' would otherwise terminate the fetch URL's path and swallow
	// the query parameters, so '?' and '=' are stripped; the folder marker
	// is split off before this runs (see splitFolders).
	libraryIDStrip = regexp.MustCompile(`[^A-Za-z0-9_./\-]+`)
)

// validateLibraryName enforces the [2,100] length window. Lengths are
// counted in runes so multi-byte names are measured in characters.
func validateLibraryName(name string) *ValidationError {
	if utf8.RuneCountInString(name) < minLibraryNameLength {
		return &ValidationError{
			Field:   "libraryName",
			Message: fmt.Sprintf("library name must be at least %d characters", minLibraryNameLength),
			Code:    string(ErrCodeTooShort),
		}
	}
	if utf8.RuneCountInString(name) > maxLibraryNameLength {
		return &ValidationError{
			Field:   "libraryName",
			Message: fmt.Sprintf("library name must be at most %d characters", maxLibraryNameLength),
			Code:    string(ErrCodeTooLong),
		}
	}
	return nil
}

// sanitizeLibraryName strips disallowed characters from a search query.
func sanitizeLibraryName(name string) string {
	return libraryNameStrip.ReplaceAllString(name, "")
}

// validateLibraryID enforces the minimum id length, counted in runes.
func validateLibraryID(id string) *ValidationError {
	if utf8.RuneCountInString(id) < minLibraryIDLength {
		return &ValidationError{
			Field:   "context7CompatibleLibraryID",
			Message: fmt.Sprintf("library ID must be at least %d characters", minLibraryIDLength),
			Code:    string(ErrCodeTooShort),
		}
	}
	return nil
}

// sanitizeLibraryID strips disallowed characters from a library id.
func sanitizeLibraryID(id string) string {
	return libraryIDStrip.ReplaceAllString(id, "")
}

// splitFolders splits a raw id on the first folder marker. It runs before
// sanitization so the marker is the only '?' form that survives; both the
// id prefix and the folder suffix are sanitized separately afterwards.
func splitFolders(id string) (libraryID, folders string) {
	if before, after, found := strings.Cut(id, folderMarker); found {
		return before, after
	}
	return id, ""
}

// clampTokens raises sub-minimum budgets to the configured minimum. Low
// values are never rejected, only lifted.
func clampTokens(tokens, minimum int) int {
	if tokens < minimum {
		return minimum
	}
	return tokens
}

// validateTokens range-checks an already-clamped budget. The clamp has
// eliminated every value below the minimum, so only the upper bound can
// trigger here; the check is kept two-sided on purpose to mirror the
// documented contract.
func validateTokens(tokens int) *ValidationError {
	if tokens < MinTokens || tokens > MaxTokens {
		return &ValidationError{
			Field:   "tokens",
			Message: fmt.Sprintf("tokens must be between %d and %d", MinTokens, MaxTokens),
			Code:    string(ErrCodeOutOfRange),
		}
	}
	return nil
}
