// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the slabot binary.
//
// Three variables are injected at build time via -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//
// [Version] is set by hand for releases. Uninjected builds report
// "unknown" and "0.1.0-dev".
package version
