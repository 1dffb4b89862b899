// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrIsDirectory is the cause of an [UnreadableError] for a path naming a directory.
	ErrIsDirectory = errors.New("path is a directory, not a file")

	// ErrRemoteDisabled is the cause of a [FetchFailedError] when remote
	// sources were compiled out with the strata_noremote build tag.
	ErrRemoteDisabled = errors.New("remote configuration sources are disabled in this build")

	// ErrUnknownKind is returned for a zero or otherwise invalid [Source].
	ErrUnknownKind = errors.New("unknown config source kind")
)

// NotFoundError occurs when a local configuration file does not exist.
type NotFoundError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e NotFoundError) Unwrap() error {
	return e.Cause
}

// UnreadableError occurs when a local configuration file exists but can
// not be read.
type UnreadableError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e UnreadableError) Error() string {
	return fmt.Sprintf("config file unreadable: %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e UnreadableError) Unwrap() error {
	return e.Cause
}

// FetchFailedError occurs when a remote configuration document can not be
// retrieved: a malformed address, a transport failure, an unsuccessful
// status or a timeout.
type FetchFailedError struct {
	Address string
	Detail  string
	Cause   error
}

// Error implements the error interface.
func (e FetchFailedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to fetch config from %s: %s", RedactURL(e.Address), e.Detail)
	}
	return fmt.Sprintf("failed to fetch config from %s: %s: %s", RedactURL(e.Address), e.Detail, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e FetchFailedError) Unwrap() error {
	return e.Cause
}

// StatusError is the cause of a [FetchFailedError] for a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e StatusError) Error() string {
	return "unexpected response status: " + e.Status
}
