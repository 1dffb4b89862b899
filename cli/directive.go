// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"strings"
)

// Directive is a request made on the command line which short-circuits
// running the program body.
type Directive uint8

const (
	ShowHelp Directive = 1 << iota
	ShowVersion
	ShowInfo
	ShowLongInfo
	ShowLicense
	PrintConfig
)

var directiveOrder = []Directive{
	ShowHelp,
	ShowVersion,
	ShowInfo,
	ShowLongInfo,
	ShowLicense,
	PrintConfig,
}

// String implements the fmt.Stringer interface.
func (d Directive) String() string {
	switch d {
	case ShowHelp:
		return "help"
	case ShowVersion:
		return "version"
	case ShowInfo:
		return "info"
	case ShowLongInfo:
		return "long-info"
	case ShowLicense:
		return "license"
	case PrintConfig:
		return "print-config"
	default:
		return "unknown"
	}
}

// Directives is the set of directives requested by a command line.
type Directives uint8

// With returns ds with d added.
func (ds Directives) With(d Directive) Directives {
	return ds | Directives(d)
}

// Has reports whether d was requested.
func (ds Directives) Has(d Directive) bool {
	return ds&Directives(d) != 0
}

// Empty reports whether no directive was requested.
func (ds Directives) Empty() bool {
	return ds == 0
}

// Terminal reports whether a directive other than [PrintConfig] was
// requested. Terminal directives end the program without reading any
// configuration source.
func (ds Directives) Terminal() bool {
	return ds&^Directives(PrintConfig) != 0
}

// List returns the requested directives in the order their messages are emitted:
// help, version, info, long-info, license and finally print-config.
func (ds Directives) List() []Directive {
	var list []Directive
	for _, d := range directiveOrder {
		if ds.Has(d) {
			list = append(list, d)
		}
	}
	return list
}

// Names returns the names of the requested directives, see [Directives.List].
func (ds Directives) Names() []string {
	list := ds.List()
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.String()
	}
	return names
}

// String implements the fmt.Stringer interface.
func (ds Directives) String() string {
	return "{" + strings.Join(ds.Names(), ",") + "}"
}
