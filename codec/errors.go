// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"errors"
	"fmt"
)

// ErrNotMapping is the cause of a [MalformedError] or [InvalidFieldError]
// when a mapping was expected.
var ErrNotMapping = errors.New("expected a mapping of keys to values")

// MalformedError occurs when a document is not syntactically valid or its
// root is not a mapping.
type MalformedError struct {
	Format string
	Cause  error
}

// Error implements the error interface.
func (e MalformedError) Error() string {
	return fmt.Sprintf("malformed %s document: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e MalformedError) Unwrap() error {
	return e.Cause
}

// InvalidFieldError occurs when a document value can not be decoded into
// the field at Key.
type InvalidFieldError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Key, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e InvalidFieldError) Unwrap() error {
	return e.Cause
}

// UnknownFieldError occurs in strict mode when a document contains a key
// which does not belong to any field.
type UnknownFieldError struct {
	Key string
}

// Error implements the error interface.
func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown config field: %s", e.Key)
}

// TemplateParseError occurs when a document template fails to be parsed.
type TemplateParseError struct {
	Cause error
}

// Error implements the error interface.
func (e TemplateParseError) Error() string {
	return fmt.Sprintf("failed to parse config template: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TemplateParseError) Unwrap() error {
	return e.Cause
}

// TemplateExecError occurs when a document template fails to execute. Most
// likely cause is a template function returning an error or panicking.
type TemplateExecError struct {
	Cause error
}

// Error implements the error interface.
func (e TemplateExecError) Error() string {
	return fmt.Sprintf("failed to exec config template: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TemplateExecError) Unwrap() error {
	return e.Cause
}
