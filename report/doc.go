// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package report builds the two daily reports.
//
// The summary lists open ticket counts, the top categories of every
// out-of-SLA bucket, and closed ticket counts. The detail report lists
// the same buckets with the aging breakdown of each bucket's leading
// category. Both are Telegram HTML.
//
// [FormatSummary] and [FormatDetail] are pure: they render data that
// has already been fetched. [Generator] performs the fetches, strictly
// one after another, and hands the results to the formatters. A report
// is all-or-nothing: the first failed fetch abandons it and its error
// is returned unchanged, so callers can inspect it with errors.As.
package report
