// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDataUnavailable     = errors.New("data unavailable")
	ErrInsufficientHistory = errors.New("insufficient price history")
	ErrSymbolNotFound      = errors.New("symbol not found")
	ErrTimeout             = errors.New("operation timed out")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrStoreClosed         = errors.New("store is closed")
)

// FetchError represents a network or parse failure on an external source.
type FetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("fetch error [%s] %s: %v", e.Source, e.Symbol, e.Err)
	}
	return fmt.Sprintf("fetch error [%s]: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(source, symbol string, err error) *FetchError {
	return &FetchError{Source: source, Symbol: symbol, Err: err}
}

// ComputationError represents a model fit or predict failure.
type ComputationError struct {
	Stage  string
	Symbol string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error [%s] %s: %v", e.Stage, e.Symbol, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// NewComputationError creates a new ComputationError.
func NewComputationError(stage, symbol string, err error) *ComputationError {
	return &ComputationError{Stage: stage, Symbol: symbol, Err: err}
}

// DataError represents missing or malformed input data.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{DataType: dataType, Symbol: symbol, Message: message, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
