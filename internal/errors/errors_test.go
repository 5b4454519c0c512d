package errors

import (
	"fmt"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"profile not found", NewProfileNotFoundError(7), ErrNotFound},
		{"entry not found", NewEntryNotFoundError(7, 3), ErrNotFound},
		{"job not found", NewJobNotFoundError("abc"), ErrNotFound},
		{"invalid parameter", NewInvalidParameterError("bad id %d", -1), ErrInvalidParameter},
		{"invalid data format", NewInvalidDataFormatError("corrupt file", nil), ErrInvalidDataFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("Expected %v to match %v", tt.err, tt.sentinel)
			}
		})
	}
}

func TestErrorsDoNotCrossMatch(t *testing.T) {
	if Is(NewProfileNotFoundError(7), ErrInvalidParameter) {
		t.Error("Expected not-found not to match invalid-parameter")
	}
	if Is(NewInvalidParameterError("x"), ErrNotFound) {
		t.Error("Expected invalid-parameter not to match not-found")
	}
}

func TestInvalidDataFormatError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk read failed")
	err := NewInvalidDataFormatError("failed to load library", cause)

	if !Is(err, cause) {
		t.Error("Expected the wrapped cause to be matchable")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NewProfileNotFoundError(7).Error(); got != "profile 7 not found" {
		t.Errorf("Unexpected message: %q", got)
	}
	if got := NewInvalidParameterError("bad start %d", 9).Error(); got != "invalid parameter: bad start 9" {
		t.Errorf("Unexpected message: %q", got)
	}
}
