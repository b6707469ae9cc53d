// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package aging folds per-category daily aging counters into the five
// bands shown in the detail report.
//
//	A: days 3-7    B: days 8-14    C: days 15-20
//	D: days 21-30  E: days 31-100
//
// Days 1 and 2 belong to no band. The reporting endpoint has always
// been read this way and the gap is kept until the data owners say
// otherwise.
package aging
