// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Module identifies a module a program was built with.
type Module struct {
	Path    string
	Version string
}

// BuildInfo is the package and build metadata of a program. Supplying it
// to a [Binder] enables the --version, --info, --long-info and --license flags.
type BuildInfo struct {
	Version   string
	Revision  string
	Time      string
	Modified  bool
	GoVersion string
	Path      string
	License   string
	Deps      []Module
}

// ReadBuildInfo fills a BuildInfo from the metadata embedded into the
// running binary by the Go toolchain.
func ReadBuildInfo() BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return BuildInfo{Version: "(devel)"}
	}

	bi := BuildInfo{
		Version:   info.Main.Version,
		GoVersion: info.GoVersion,
		Path:      info.Main.Path,
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			bi.Revision = s.Value
		case "vcs.time":
			bi.Time = s.Value
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	for _, dep := range info.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		bi.Deps = append(bi.Deps, Module{Path: dep.Path, Version: dep.Version})
	}
	return bi
}

func (bi BuildInfo) version() string {
	if bi.Version == "" {
		return "(devel)"
	}
	return bi.Version
}

// VersionMessage is printed for --version.
func (bi BuildInfo) VersionMessage(program string) string {
	return fmt.Sprintf("%s version %s\n", program, bi.version())
}

// InfoMessage is printed for --info.
func (bi BuildInfo) InfoMessage(program string) string {
	var sb strings.Builder
	sb.WriteString(bi.VersionMessage(program))
	if bi.Revision != "" {
		fmt.Fprintf(&sb, "revision: %s", bi.Revision)
		if bi.Modified {
			sb.WriteString(" (modified)")
		}
		sb.WriteByte('\n')
	}
	if bi.Time != "" {
		fmt.Fprintf(&sb, "built: %s\n", bi.Time)
	}
	return sb.String()
}

// LongInfoMessage is printed for --long-info.
func (bi BuildInfo) LongInfoMessage(program string) string {
	var sb strings.Builder
	sb.WriteString(bi.InfoMessage(program))
	if bi.Path != "" {
		fmt.Fprintf(&sb, "module: %s\n", bi.Path)
	}
	if bi.GoVersion != "" {
		fmt.Fprintf(&sb, "go: %s\n", bi.GoVersion)
	}
	if len(bi.Deps) > 0 {
		sb.WriteString("dependencies:\n")
		for _, dep := range bi.Deps {
			fmt.Fprintf(&sb, "  %s %s\n", dep.Path, dep.Version)
		}
	}
	return sb.String()
}

// LicenseMessage is printed for --license.
func (bi BuildInfo) LicenseMessage(program string) string {
	if bi.License == "" {
		return program + ": no license information available\n"
	}
	return strings.TrimRight(bi.License, "\n") + "\n"
}
