// Package errors provides unified error handling for the relay with a
// code-based taxonomy shared across sessions, the pipeline, and transport.
package errors

import "fmt"

// Code classifies relay errors. Transport and capacity errors are fatal
// to a session; pipeline-stage errors are recoverable.
type Code int

const (
	CodeUnknown Code = iota
	CodeTransport
	CodeCapacityExceeded
	CodeEmptySegment
	CodeDecode
	CodeTranscription
	CodeNoSpeech
	CodeTranslation
	CodeSynthesis
	CodePeerDelivery
)

var codeNames = map[Code]string{
	CodeUnknown:          "UNKNOWN",
	CodeTransport:        "TRANSPORT",
	CodeCapacityExceeded: "CAPACITY_EXCEEDED",
	CodeEmptySegment:     "EMPTY_SEGMENT",
	CodeDecode:           "DECODE",
	CodeTranscription:    "TRANSCRIPTION",
	CodeNoSpeech:         "NO_SPEECH",
	CodeTranslation:      "TRANSLATION",
	CodeSynthesis:        "SYNTHESIS",
	CodePeerDelivery:     "PEER_DELIVERY",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// AppError is the base error type with a structured code.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates a new AppError with the given code and message.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code Code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// CodeOf extracts the code from an error, walking the cause chain.
func CodeOf(err error) Code {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return CodeUnknown
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsRecoverable reports whether a session may continue after the error.
// Only pipeline-stage and peer-delivery errors are recoverable; transport
// and capacity errors end the session.
func IsRecoverable(err error) bool {
	switch CodeOf(err) {
	case CodeDecode, CodeTranscription, CodeNoSpeech, CodeTranslation, CodeSynthesis, CodePeerDelivery:
		return true
	default:
		return false
	}
}
