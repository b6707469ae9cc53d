// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the subset of the time package that slabot code is allowed
// to call. Anything that reads the current time or waits for a deadline
// takes a Clock instead of calling time.Now or time.After directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives once d has elapsed. If
	// d <= 0 the channel is ready immediately.
	After(d time.Duration) <-chan time.Time
}
