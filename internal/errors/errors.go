// Package errors defines the typed error taxonomy used across the engine:
// not-found, invalid-parameter and invalid-data-format. Expected-absent
// conditions are always reported through these types or an explicit empty
// result, never a panic.
package errors

import (
	"errors"
	"fmt"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

// Sentinel errors for common error conditions
var (
	// ErrNotFound is returned when a profile, group or entry is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidParameter is returned for bad ids, out-of-range positions,
	// wrong profile kinds and malformed urls.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidDataFormat is returned for persistence corruption and
	// (de)serialization failures.
	ErrInvalidDataFormat = errors.New("invalid data format")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ProfileNotFoundError reports an absent profile id with context.
type ProfileNotFoundError struct {
	ProfileID model.ProfileID
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %d not found", e.ProfileID)
}

func (e *ProfileNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewProfileNotFoundError creates a new ProfileNotFoundError
func NewProfileNotFoundError(id model.ProfileID) *ProfileNotFoundError {
	return &ProfileNotFoundError{ProfileID: id}
}

// EntryNotFoundError reports an absent entry within a dictionary.
type EntryNotFoundError struct {
	ProfileID model.ProfileID
	EntryNo   int64
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry %d not found in dictionary %d", e.EntryNo, e.ProfileID)
}

func (e *EntryNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewEntryNotFoundError creates a new EntryNotFoundError
func NewEntryNotFoundError(profileID model.ProfileID, entryNo int64) *EntryNotFoundError {
	return &EntryNotFoundError{ProfileID: profileID, EntryNo: entryNo}
}

// JobNotFoundError reports an absent background job id.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job %s not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// InvalidParameterError reports a rejected input with context.
type InvalidParameterError struct {
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter: %s", e.Message)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// NewInvalidParameterError creates a new InvalidParameterError
func NewInvalidParameterError(format string, args ...interface{}) *InvalidParameterError {
	return &InvalidParameterError{Message: fmt.Sprintf(format, args...)}
}

// InvalidDataFormatError reports corrupted persisted state or a failed
// (de)serialization, optionally wrapping the underlying cause.
type InvalidDataFormatError struct {
	Message string
	Cause   error
}

func (e *InvalidDataFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid data format: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid data format: %s", e.Message)
}

func (e *InvalidDataFormatError) Is(target error) bool {
	return target == ErrInvalidDataFormat
}

func (e *InvalidDataFormatError) Unwrap() error {
	return e.Cause
}

// NewInvalidDataFormatError creates a new InvalidDataFormatError
func NewInvalidDataFormatError(message string, cause error) *InvalidDataFormatError {
	return &InvalidDataFormatError{Message: message, Cause: cause}
}
