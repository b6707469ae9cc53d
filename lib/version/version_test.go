// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-10-18T08:00:00Z"
	want := Version + " (abc1234-dirty, 2026-10-18T08:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "-dirty") {
		t.Errorf("Info() = %q, should not be dirty", got)
	}
	if !strings.Contains(Full(), "Go: ") {
		t.Errorf("Full() = %q, missing Go version", Full())
	}
}
