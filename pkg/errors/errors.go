package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeBrowser represents failures talking to the browser session
	ErrorTypeBrowser ErrorType = "browser"
	// ErrorTypeLogin represents failures while driving the login screens
	ErrorTypeLogin ErrorType = "login"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeStorage represents failures writing output files
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScanError represents an error raised inside a login or scan routine
type ScanError struct {
	Type    ErrorType
	Scope   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Scope, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Scope, e.Message)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if re-running the whole operation may succeed
func (e *ScanError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeConfiguration:
		return false
	default:
		return true
	}
}

// IsRetryable reports whether err should be retried. Errors that are not a
// ScanError are retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var scanErr *ScanError
	if stderrors.As(err, &scanErr) {
		return scanErr.IsRetryable()
	}
	return true
}

// New creates a new ScanError
func New(errType ErrorType, scope, message string, err error) *ScanError {
	return &ScanError{
		Type:    errType,
		Scope:   scope,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewBrowser creates a new browser error
func NewBrowser(scope, message string, err error) *ScanError {
	return New(ErrorTypeBrowser, scope, message, err)
}

// NewLogin creates a new login error
func NewLogin(scope, message string, err error) *ScanError {
	return New(ErrorTypeLogin, scope, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(scope, message string, err error) *ScanError {
	return New(ErrorTypeParsing, scope, message, err)
}

// NewStorage creates a new storage error
func NewStorage(scope, message string, err error) *ScanError {
	return New(ErrorTypeStorage, scope, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(scope, message string, err error) *ScanError {
	return New(ErrorTypePublisher, scope, message, err)
}

// NewCache creates a new cache error
func NewCache(scope, message string, err error) *ScanError {
	return New(ErrorTypeCache, scope, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScanError {
	return New(ErrorTypeConfiguration, "", message, err)
}
