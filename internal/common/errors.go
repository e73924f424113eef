package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrDocumentOpen    = errors.New("document open failed")
	ErrPageExtraction  = errors.New("page extraction failed")
	ErrArtifactWrite   = errors.New("artifact write failed")
	ErrLedger          = errors.New("ledger error")
	ErrOutputCollision = errors.New("output name collision")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DocumentOpenError marks a PDF that could not be opened or parsed at all.
func DocumentOpenError(path string, cause error) error {
	return NewAppError("DOCUMENT_OPEN", path, errors.Join(ErrDocumentOpen, cause))
}

// PageExtractionError marks a single page whose text could not be read.
func PageExtractionError(page int, cause error) error {
	return NewAppError("PAGE_EXTRACTION", fmt.Sprintf("page %d", page), errors.Join(ErrPageExtraction, cause))
}

// ArtifactWriteError marks a spreadsheet or text artifact that could not be persisted.
func ArtifactWriteError(path string, cause error) error {
	return NewAppError("ARTIFACT_WRITE", path, errors.Join(ErrArtifactWrite, cause))
}

// OutputCollisionError marks a document whose artifact names were already taken
// by an earlier document of the same run.
func OutputCollisionError(name, first string) error {
	return NewAppError("OUTPUT_COLLISION", name, fmt.Errorf("%w: same artifact names as %s", ErrOutputCollision, first))
}
