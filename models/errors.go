package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrConfiguration indicates an invalid or missing scrape setting.
type ErrConfiguration struct {
	Field string
	Err   error
}

func (e ErrConfiguration) Error() string {
	return fmt.Errorf("configuration: %s: %w", e.Field, e.Err).Error()
}

func (e ErrConfiguration) Unwrap() error {
	return e.Err
}

// ErrElementNotFound indicates an expected page element is absent.
type ErrElementNotFound struct {
	Selector string
	Err      error
}

func (e ErrElementNotFound) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("element not found: %s", e.Selector)
	}
	return fmt.Errorf("element not found: %s: %w", e.Selector, e.Err).Error()
}

func (e ErrElementNotFound) Unwrap() error {
	return e.Err
}

// ErrNavigation indicates a portal step could not be completed.
type ErrNavigation struct {
	Step string
	Err  error
}

func (e ErrNavigation) Error() string {
	return fmt.Errorf("navigation: %s: %w", e.Step, e.Err).Error()
}

func (e ErrNavigation) Unwrap() error {
	return e.Err
}

// ErrParse indicates the retrieved table does not have the expected shape.
type ErrParse struct {
	Reason string
	Err    error
}

func (e ErrParse) Error() string {
	if e.Err == nil {
		return "parse: " + e.Reason
	}
	return fmt.Errorf("parse: %s: %w", e.Reason, e.Err).Error()
}

func (e ErrParse) Unwrap() error {
	return e.Err
}

// ErrorKind labels err for logs and metrics.
func ErrorKind(err error) string {
	if err == nil {
		return "unknown"
	}
	var configuration ErrConfiguration
	if errors.As(err, &configuration) {
		return "configuration"
	}
	var parse ErrParse
	if errors.As(err, &parse) {
		return "parse"
	}
	var notFound ErrElementNotFound
	if errors.As(err, &notFound) {
		return "element_not_found"
	}
	var navigation ErrNavigation
	if errors.As(err, &navigation) {
		return "navigation"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "other"
}
