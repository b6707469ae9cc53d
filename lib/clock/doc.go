// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so that the report
// window and the daily scheduler can be tested without waiting on the
// wall clock.
//
// Production code holds a [Clock] and receives [Real]. Tests construct
// [Fake] at a fixed instant and move it with [FakeClock.Advance]:
//
//	c := clock.Fake(time.Date(2026, 10, 18, 7, 59, 0, 0, jakarta))
//	go scheduler.Run(ctx)
//	c.WaitForTimers(1)
//	c.Advance(time.Minute) // the 08:00 run fires
package clock
