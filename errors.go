// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"fmt"
	"strings"

	"github.com/z5labs/strata/source"
)

// ParseError occurs when the command line can not be bound.
type ParseError struct {
	Usage string
	Cause error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse command line: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (ParseError) Phase() Phase { return Parsing }

// ConfigSourceError occurs when a configuration source can not be read.
type ConfigSourceError struct {
	Source source.Source
	Cause  error
}

// Error implements the error interface.
func (e ConfigSourceError) Error() string {
	return fmt.Sprintf("failed to read config source %s: %s", e.Source, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ConfigSourceError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (ConfigSourceError) Phase() Phase { return Resolving }

// ConfigDecodeError occurs when a configuration document is malformed.
type ConfigDecodeError struct {
	Source source.Source
	Cause  error
}

// Error implements the error interface.
func (e ConfigDecodeError) Error() string {
	return fmt.Sprintf("failed to decode config source %s: %s", e.Source, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ConfigDecodeError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (ConfigDecodeError) Phase() Phase { return Resolving }

// MergeError occurs when applying an update to the configuration panics.
type MergeError struct {
	Cause error
}

// Error implements the error interface.
func (e MergeError) Error() string {
	return fmt.Sprintf("failed to merge config: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e MergeError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (MergeError) Phase() Phase { return Merging }

// ValidationError occurs when the merged configuration is rejected.
type ValidationError struct {
	Messages []string
	Cause    error
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return "invalid configuration: " + e.Messages[0]
	}
	return "invalid configuration:\n  - " + strings.Join(e.Messages, "\n  - ")
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ValidationError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (ValidationError) Phase() Phase { return Validating }

// DirectiveError occurs when the output of a directive can not be produced.
type DirectiveError struct {
	Directive string
	Cause     error
}

// Error implements the error interface.
func (e DirectiveError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Directive, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e DirectiveError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (DirectiveError) Phase() Phase { return Dispatching }

// AppBuildError occurs when the program body can not be built from the
// resolved configuration.
type AppBuildError struct {
	Cause error
}

// Error implements the error interface.
func (e AppBuildError) Error() string {
	return fmt.Sprintf("failed to build app: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e AppBuildError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (AppBuildError) Phase() Phase { return Dispatching }

// AppRunError occurs when the program body fails.
type AppRunError struct {
	Cause error
}

// Error implements the error interface.
func (e AppRunError) Error() string {
	return fmt.Sprintf("failed to run app: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e AppRunError) Unwrap() error {
	return e.Cause
}

// Phase implements the [PhaseError] interface.
func (AppRunError) Phase() Phase { return Dispatching }

// PhaseError is implemented by every error a resolution pass fails with.
type PhaseError interface {
	error
	Phase() Phase
}
