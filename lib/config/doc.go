// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for blockarchive.
//
// Configuration is loaded from a single file named by either the
// BLOCKARCHIVE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no automatic file search. When
// neither is given the built-in defaults apply, which suit local
// checking; uploads need at least a destination.
//
// The file may carry environment-specific sections (development,
// staging, production) whose non-empty values override the base
// sections when [Config].Environment matches.
//
// Variable expansion is performed on the upload destination after
// loading: ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Walk and Upload sections
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other blockarchive packages.
package config
