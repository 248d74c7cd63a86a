// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. Set manually for releases.
	Version = "0.1.0-dev"
)

// buildStamp is the commit, dirty flag, and time of a build.
type buildStamp struct {
	commit string
	dirty  bool
	time   string
}

// stamp returns the ldflags values, falling back to the VCS settings
// the go command embeds for variables left at their defaults.
func stamp() buildStamp {
	current := buildStamp{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	if info, ok := debug.ReadBuildInfo(); ok {
		current = current.withSettings(info.Settings)
	}
	return current
}

func (s buildStamp) withSettings(settings []debug.BuildSetting) buildStamp {
	fromVCS := s.commit == "unknown"
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if fromVCS {
				s.commit = setting.Value[:min(len(setting.Value), 7)]
			}
		case "vcs.modified":
			if fromVCS {
				s.dirty = setting.Value == "true"
			}
		case "vcs.time":
			if s.time == "unknown" {
				s.time = setting.Value
			}
		}
	}
	return s
}

func (s buildStamp) String() string {
	dirty := ""
	if s.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, s.commit, dirty, s.time)
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return stamp().String()
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Fprint writes "name version (commit, time)" and the Go details to w.
func Fprint(w io.Writer, name string) {
	fmt.Fprintf(w, "%s %s\n", name, Full())
}
