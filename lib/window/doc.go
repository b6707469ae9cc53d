// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package window computes the reporting window every report covers: a
// fixed start date through the end of yesterday, both evaluated in the
// configured time zone.
//
// The window is rebuilt for every report from the caller's notion of
// "now" (usually a [clock.Clock]); nothing here reads the system clock.
package window
