// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package sla ranks delayed-ticket SLA buckets and their worst
// categories.
//
// The delayed-data endpoint returns an object keyed by bucket
// ("sla_1", "sla_3", ...) whose values hold per-category counts. Go
// maps forget key order, but ranking ties are broken by source order,
// so [Dataset] and [Counts] decode JSON objects into ordered slices.
//
// Bucket keys resolve through a [Table] to a display label and an
// explicit numeric severity. Buckets sort by severity, highest first;
// categories within a bucket sort by count, highest first. Both sorts
// are stable.
package sla
