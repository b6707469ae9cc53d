// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package sla

import (
	"regexp"
	"strconv"
)

// UnknownSeverity ranks below every real bucket. It is assigned to
// unmapped keys that carry no digits.
const UnknownSeverity = -1

// Label is how a bucket key is displayed and ordered.
type Label struct {
	Text     string
	Severity int
}

// Table maps bucket keys to labels.
type Table map[string]Label

// DefaultTable is the bucket table of the KIP delayed endpoint.
func DefaultTable() Table {
	return Table{
		"sla_1":  {Text: "1HK", Severity: 1},
		"sla_3":  {Text: "3HK", Severity: 3},
		"sla_7":  {Text: "7HK", Severity: 7},
		"sla_14": {Text: "14HK", Severity: 14},
	}
}

// DefaultExcluded lists bucket keys that are never reported.
func DefaultExcluded() []string { return []string{"sla_7"} }

var firstDigits = regexp.MustCompile(`\d+`)

// SeverityFromText extracts the first run of digits in text. Text with
// no digits, or digits too large for an int, yields UnknownSeverity.
func SeverityFromText(text string) int {
	match := firstDigits.FindString(text)
	if match == "" {
		return UnknownSeverity
	}
	severity, err := strconv.Atoi(match)
	if err != nil {
		return UnknownSeverity
	}
	return severity
}

// Resolve returns the label for key. Unmapped keys display as
// themselves and take their severity from their digits.
func (t Table) Resolve(key string) Label {
	if label, ok := t[key]; ok {
		return label
	}
	return Label{Text: key, Severity: SeverityFromText(key)}
}
