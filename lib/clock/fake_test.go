// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(epoch)
	if got := c.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	c.Advance(90 * time.Minute)
	if got, want := c.Now(), epoch.Add(90*time.Minute); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeAfterFiresOnDeadline(t *testing.T) {
	c := Fake(epoch)
	channel := c.After(time.Hour)

	c.Advance(59 * time.Minute)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	c.Advance(time.Minute)
	select {
	case fired := <-channel:
		if want := epoch.Add(time.Hour); !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
	if pending := c.PendingTimers(); pending != 0 {
		t.Errorf("PendingTimers() = %d, want 0", pending)
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) should be ready immediately")
	}
	if pending := c.PendingTimers(); pending != 0 {
		t.Errorf("PendingTimers() = %d, want 0", pending)
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan time.Time, 1)
	go func() {
		done <- <-c.After(5 * time.Second)
	}()

	c.WaitForTimers(1)
	c.Advance(5 * time.Second)

	select {
	case fired := <-done:
		if want := epoch.Add(5 * time.Second); !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	case <-time.After(5 * time.Second): //nolint:realclock test hang prevention
		t.Fatal("goroutine was not released by Advance")
	}
}
