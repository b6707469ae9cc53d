// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package sla

import "sort"

// Bucket is a ranked SLA bucket.
type Bucket struct {
	Key      string
	Label    string
	Severity int
	Data     Counts
}

// Rank orders the dataset's buckets by severity, highest first,
// dropping every key in excluded. Buckets of equal severity keep their
// dataset order. An empty dataset ranks to an empty slice.
func (t Table) Rank(dataset Dataset, excluded []string) []Bucket {
	skip := make(map[string]struct{}, len(excluded))
	for _, key := range excluded {
		skip[key] = struct{}{}
	}

	buckets := make([]Bucket, 0, len(dataset))
	for _, entry := range dataset {
		if _, ok := skip[entry.Key]; ok {
			continue
		}
		label := t.Resolve(entry.Key)
		buckets = append(buckets, Bucket{
			Key:      entry.Key,
			Label:    label.Text,
			Severity: label.Severity,
			Data:     entry.Data,
		})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Severity > buckets[j].Severity
	})
	return buckets
}

// TopCategories returns at most n categories with the highest counts.
// Equal counts keep source order. The input is not modified. Fewer than
// n categories are returned as-is; n <= 0 returns nothing.
func TopCategories(counts Counts, n int) Counts {
	if n <= 0 || len(counts) == 0 {
		return Counts{}
	}
	sorted := make(Counts, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
