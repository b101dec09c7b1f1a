// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package versions provides build version information.
package versions

import (
	"fmt"
	"runtime"
	"time"
)

const unknownStr = "unknown"

// Version information set at build time using -ldflags.
var (
	// Version is the semantic version of the release, or "dev" for
	// untagged builds.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = unknownStr
	// BuildDate is the RFC 3339 date the binary was built.
	BuildDate = unknownStr
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information for the running
// binary. Untagged builds report a pseudo-version derived from the
// commit hash.
func GetVersionInfo() VersionInfo {
	version := Version
	if version == "dev" {
		switch {
		case Commit == unknownStr:
			version = "build-unknown"
		case len(Commit) >= 8:
			version = fmt.Sprintf("build-%s", Commit[:8])
		default:
			version = fmt.Sprintf("build-%s", Commit)
		}
	}

	buildDate := BuildDate
	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 UTC")
	}

	return VersionInfo{
		Version:   version,
		Commit:    Commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
