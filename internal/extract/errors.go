// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
)

// FailureCode identifies the typed, expected failure modes of text
// extraction. Strategy-level errors are absorbed by the chain; only these
// codes surface to the caller.
type FailureCode string

const (
	// FailureFileTooLarge: input rejected before any strategy ran.
	FailureFileTooLarge FailureCode = "FILE_TOO_LARGE"
	// FailureInvalidPDF: the input is not parseable as a PDF at all.
	FailureInvalidPDF FailureCode = "INVALID_PDF"
	// FailureNoText: every strategy was exhausted without producing
	// output above the acceptance threshold.
	FailureNoText FailureCode = "NO_TEXT"
	// FailureTimeout: the overall extraction budget was exceeded.
	// Individual strategy timeouts never surface this code.
	FailureTimeout FailureCode = "TIMEOUT"
)

// Error is a typed extraction failure. The pipeline never produces untyped
// errors for expected failure modes.
type Error struct {
	Code    FailureCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a typed extraction failure.
func NewError(code FailureCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the failure code from an error, or "" if the error is not
// a typed extraction failure.
func CodeOf(err error) FailureCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// NextSteps returns actionable guidance for a failure code, suitable for
// user-visible messaging by the caller.
func NextSteps(code FailureCode) []string {
	switch code {
	case FailureNoText:
		return []string{
			"Try a different PDF file",
			"Check if the PDF is password-protected",
			"Ensure the PDF contains readable text, not just images",
			"Enable the OCR fallback for scanned documents",
		}
	case FailureFileTooLarge:
		return []string{
			"Reduce the file size or split into smaller PDFs",
			"Use a PDF compressor to reduce file size",
		}
	case FailureInvalidPDF:
		return []string{
			"Ensure the file is a valid PDF document",
			"Try re-saving or re-exporting the PDF",
		}
	case FailureTimeout:
		return []string{
			"Try with a smaller PDF file",
			"Try again in a few moments",
		}
	default:
		return []string{"Contact support if the issue persists"}
	}
}
