// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/maisjamil1/flight-inspirations/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When GitCommit or BuildTime are left unset, the VCS revision and
// time that the go command embeds in the binary are used instead.
package version
