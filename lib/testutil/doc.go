// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds shared test helpers.
//
// [RequireReceive] and [RequireNoReceive] wrap the select-with-timeout
// pattern so tests waiting on goroutines never hang and never reach for
// time.After themselves. [WriteFile] drops a fixture into t.TempDir.
//
// Helpers call t.Fatalf on failure; setup failures are not recoverable.
package testutil
