// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command tree behind the slabot binary:
// subcommand dispatch, pflag parsing with typo suggestions, generated
// help, and the process logger.
package cli
