// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses 5-field cron expressions and computes the next
// matching wall-clock time in a given location.
//
//	┌───────────── minute (0-59)
//	│ ┌───────────── hour (0-23)
//	│ │ ┌───────────── day of month (1-31)
//	│ │ │ ┌───────────── month (1-12)
//	│ │ │ │ ┌───────────── day of week (0-6, 0=Sunday)
//	│ │ │ │ │
//	0 8 * * *
//
// Fields accept single values, ranges (1-5), lists (1,3,5), steps
// (*/15, 1-30/5) and the wildcard. Standard cron day matching applies:
// when both day-of-month and day-of-week are restricted, a day matches
// if either does.
//
// Unlike most cron daemons the location is explicit. A Schedule parsed
// with [ParseInLocation] is evaluated against the wall clock of that
// location, so "0 8 * * *" in Asia/Jakarta fires at 01:00 UTC.
package cron
