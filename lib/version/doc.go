// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// blockarchive binary.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] is the short git SHA of the build
//   - [BuildTime] is the UTC timestamp of the build
//   - [Version] is the semantic version string
//
// When GitCommit is not injected, the VCS revision recorded by the Go
// toolchain in the binary's build info is used instead.
package version
