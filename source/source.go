// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package source locates and reads raw configuration documents.
//
// A [Source] is either a local file or a remote address. A [Reader] turns a
// Source into the bytes of the document it names. Reads are never retried:
// the first failure is reported to the caller as a [NotFoundError],
// [UnreadableError] or [FetchFailedError].
package source

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind tells local files and remote addresses apart.
type Kind int

const (
	LocalFile Kind = iota
	RemoteAddress
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case LocalFile:
		return "file"
	case RemoteAddress:
		return "remote"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is an immutable reference to a configuration document.
type Source struct {
	kind     Kind
	location string
}

// File returns a Source for the local file at path.
func File(path string) Source {
	return Source{kind: LocalFile, location: path}
}

// Remote returns a Source for the document served at address.
func Remote(address string) Source {
	return Source{kind: RemoteAddress, location: address}
}

// Parse classifies a location given on the command line. Locations using
// the http or https scheme are remote, a file:// prefix is stripped and
// anything else is treated as a local path.
func Parse(location string) Source {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return Remote(location)
	case strings.HasPrefix(lower, "file://"):
		return File(location[len("file://"):])
	default:
		return File(location)
	}
}

// Kind returns whether s is a local file or a remote address.
func (s Source) Kind() Kind {
	return s.kind
}

// Location returns the path or address of s.
func (s Source) Location() string {
	return s.location
}

// String implements the fmt.Stringer interface. Passwords in remote
// addresses are redacted.
func (s Source) String() string {
	if s.kind == RemoteAddress {
		return s.Redacted()
	}
	return "file:" + s.location
}

// Redacted returns the location of s with any password in a remote
// address replaced by "xxxxx". It is safe to log or record in a trace.
func (s Source) Redacted() string {
	if s.kind != RemoteAddress {
		return s.location
	}
	return RedactURL(s.location)
}

// RedactURL hides the password of the URL u. Text which does not parse
// as a URL is returned unchanged.
func RedactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	return parsed.Redacted()
}
