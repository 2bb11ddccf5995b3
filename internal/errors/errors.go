// Package errors defines the error taxonomy surfaced to the overlay.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a failure kind.
type Code string

const (
	ErrPageNotReady          Code = "PAGE_NOT_READY"
	ErrCaptionsUnavailable   Code = "CAPTIONS_UNAVAILABLE"
	ErrCaptionSourceDetached Code = "CAPTION_SOURCE_DETACHED"
	ErrCaptureOverflow       Code = "CAPTURE_OVERFLOW"
	ErrEmptyTranscript       Code = "EMPTY_TRANSCRIPT"
	ErrCredentialMissing     Code = "CREDENTIAL_MISSING"
	ErrAPIDenied             Code = "API_DENIED"
	ErrRateLimited           Code = "RATE_LIMITED"
	ErrMalformedRequest      Code = "MALFORMED_REQUEST"
	ErrTextTooShort          Code = "TEXT_TOO_SHORT"
	ErrContentNotExtracted   Code = "CONTENT_NOT_EXTRACTED"
	ErrUnknownAPI            Code = "UNKNOWN_API_ERROR"
	ErrTransportFailure      Code = "TRANSPORT_FAILURE"
)

// DigestError is a structured error with a code and a human-readable message.
type DigestError struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *DigestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *DigestError) Unwrap() error {
	return e.Err
}

// NewPageNotReady is returned when no media element appeared within the poll budget.
func NewPageNotReady(polls int) *DigestError {
	return &DigestError{
		Code:    ErrPageNotReady,
		Message: fmt.Sprintf("video element not found after %d polls", polls),
		Details: map[string]any{"polls": polls},
	}
}

// NewCaptionsUnavailable carries the reason captions could not be resolved.
func NewCaptionsUnavailable(msg string) *DigestError {
	return &DigestError{Code: ErrCaptionsUnavailable, Message: msg}
}

func NewCaptionSourceDetached() *DigestError {
	return &DigestError{
		Code:    ErrCaptionSourceDetached,
		Message: "The captions display was removed from the page. Please start the summary again.",
	}
}

// NewCaptureOverflow is returned when caption batches were dropped during capture.
func NewCaptureOverflow() *DigestError {
	return &DigestError{
		Code:    ErrCaptureOverflow,
		Message: "Some captions were lost because they arrived too fast. Please start the summary again.",
	}
}

func NewEmptyTranscript() *DigestError {
	return &DigestError{
		Code:    ErrEmptyTranscript,
		Message: "No captions were detected. Please ensure captions are enabled and visible on the video.",
	}
}

func NewCredentialMissing() *DigestError {
	return &DigestError{
		Code:    ErrCredentialMissing,
		Message: "Please set your MeaningCloud API key in the extension settings",
	}
}

func NewAPIDenied() *DigestError {
	return &DigestError{Code: ErrAPIDenied, Message: "Operation denied. Please check your API key and permissions."}
}

func NewRateLimited() *DigestError {
	return &DigestError{Code: ErrRateLimited, Message: "Request rate limit exceeded. Please try again later."}
}

func NewMalformedRequest() *DigestError {
	return &DigestError{Code: ErrMalformedRequest, Message: "Missing required parameters. Please try again."}
}

func NewTextTooShort() *DigestError {
	return &DigestError{Code: ErrTextTooShort, Message: "Text is too short. Please capture more captions."}
}

func NewContentNotExtracted() *DigestError {
	return &DigestError{
		Code:    ErrContentNotExtracted,
		Message: "No meaningful content could be extracted. Try a different section of the video.",
	}
}

// NewUnknownAPI keeps the service's own message when it sent one.
func NewUnknownAPI(code, msg string) *DigestError {
	if msg == "" {
		msg = "API Error: " + code
	}
	return &DigestError{
		Code:    ErrUnknownAPI,
		Message: msg,
		Details: map[string]any{"status_code": code},
	}
}

// NewTransportFailure wraps a network or decoding failure.
func NewTransportFailure(err error) *DigestError {
	msg := "analysis service unreachable"
	if err != nil {
		msg = err.Error()
	}
	return &DigestError{Code: ErrTransportFailure, Message: msg, Err: err}
}

// Is checks if err (or anything it wraps) is a DigestError with the given code.
func Is(err error, code Code) bool {
	var dErr *DigestError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf returns the code of err, or "" when err is not a DigestError.
func CodeOf(err error) Code {
	var dErr *DigestError
	if stderrors.As(err, &dErr) {
		return dErr.Code
	}
	return ""
}

// UserMessage renders err for the error overlay.
// Analysis failures get the "API Error: " prefix the popup users already know.
func UserMessage(err error) string {
	var dErr *DigestError
	if !stderrors.As(err, &dErr) {
		return "API Error: " + err.Error()
	}
	switch dErr.Code {
	case ErrCaptionsUnavailable, ErrCaptionSourceDetached, ErrCaptureOverflow, ErrEmptyTranscript, ErrPageNotReady:
		return dErr.Message
	default:
		return "API Error: " + dErr.Message
	}
}
