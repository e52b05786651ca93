// Package errors provides structured error types for the photo booth.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, HTTP API and the editor
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Layout and compositor codes (INVALID_SLOT_INDEX, OUT_OF_BOUNDS) signal
// programming invariants: valid session state never produces them.
// Session codes (SLOT_OUT_OF_RANGE, FRAME_FULL) are expected user-flow
// conditions and are shown to the user. Camera failures carry a [Reason].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFrameFull, "frame %d has no free slot", id)
//	if errors.Is(err, errors.ErrCodeFrameFull) {
//	    // Tell the user to remove a photo first
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecodeFailure, origErr, "decode %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometry errors
	ErrCodeInvalidSlotIndex Code = "INVALID_SLOT_INDEX"
	ErrCodeOutOfBounds      Code = "OUT_OF_BOUNDS"

	// Session errors
	ErrCodeSlotOutOfRange Code = "SLOT_OUT_OF_RANGE"
	ErrCodeFrameFull      Code = "FRAME_FULL"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePhotoNotFound   Code = "PHOTO_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Device and media errors
	ErrCodeCameraUnavailable Code = "CAMERA_UNAVAILABLE"
	ErrCodeDecodeFailure     Code = "DECODE_FAILURE"

	// Throttling
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by error types that report a code without being an *Error.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a coded error with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For camera errors, returns the per-reason message.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var ce *CameraError
	if errors.As(err, &ce) {
		return ce.UserMessage()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsUserFlow reports whether err is an expected condition of the booth flow
// that should be shown to the user rather than treated as a failure.
func IsUserFlow(err error) bool {
	switch GetCode(err) {
	case ErrCodeFrameFull, ErrCodeSlotOutOfRange, ErrCodeCameraUnavailable, ErrCodeDecodeFailure:
		return true
	}
	return false
}

// Reason subdivides camera acquisition failures.
type Reason string

// Camera failure reasons.
const (
	ReasonNoDevice         Reason = "no-device"
	ReasonPermissionDenied Reason = "permission-denied"
	ReasonDeviceBusy       Reason = "device-busy"
	ReasonUnsupported      Reason = "unsupported"
	ReasonUnknown          Reason = "unknown"
)

// CameraError describes why a camera could not be acquired.
// Camera errors are recoverable: the user is shown [CameraError.UserMessage]
// and offered an explicit retry.
type CameraError struct {
	Reason Reason
	Cause  error
}

// Camera creates a CameraError for the given reason.
func Camera(reason Reason, cause error) *CameraError {
	return &CameraError{Reason: reason, Cause: cause}
}

// Error implements the error interface.
func (e *CameraError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("camera unavailable (%s): %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("camera unavailable (%s)", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *CameraError) Unwrap() error { return e.Cause }

// Code returns the error code for this error type.
func (e *CameraError) Code() Code { return ErrCodeCameraUnavailable }

// UserMessage returns the message shown next to the retry action.
func (e *CameraError) UserMessage() string {
	switch e.Reason {
	case ReasonNoDevice:
		return "No camera found. Please check your device."
	case ReasonPermissionDenied:
		return "Camera access was denied. Please grant permission and retry."
	case ReasonDeviceBusy:
		return "The camera is in use by another application. Close it and retry."
	case ReasonUnsupported:
		return "Camera capture is not supported on this system."
	}
	if e.Cause != nil {
		return fmt.Sprintf("Could not access the camera: %v", e.Cause)
	}
	return "Could not access the camera: unknown error"
}

// RateLimitedError provides additional information for throttled requests.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
