// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package bot decides when reports are generated and where they go.
//
// [Shell] runs report invocations. The /start command acknowledges in
// the requesting chat and then delivers the summary followed by the
// detail report to the configured destination chat; the daily schedule
// delivers the summary alone. The detail report is generated only after
// the summary has been delivered, so the two never arrive out of order.
//
// Error visibility is asymmetric. A failed summary posts one plain-text
// "Error fetching data: ..." message to the destination and ends the
// invocation. A failed detail report is only logged.
//
// Each invocation carries a random run ID in every log line and in the
// [Status] the ops API exposes. Invocations are independent: the daily
// run and a /start arriving at the same moment are not serialized and
// may interleave their messages.
//
// [Scheduler] fires a job on a cron schedule using an injected clock.
package bot
