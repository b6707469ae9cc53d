// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// searchHorizon bounds Next for expressions that can never match, such
// as "0 0 31 2 *".
const searchHorizon = 5 * 366 * 24 * time.Hour

// Schedule is a parsed cron expression bound to a location.
type Schedule struct {
	expression string
	location   *time.Location

	minutes     fieldSet
	hours       fieldSet
	daysOfMonth fieldSet
	months      fieldSet
	daysOfWeek  fieldSet

	// Restricted day fields switch day matching from AND to OR.
	domRestricted bool
	dowRestricted bool
}

// fieldSet holds the allowed values of one field as bits 0-63.
type fieldSet uint64

func (s fieldSet) contains(value int) bool { return s&(1<<uint(value)) != 0 }

type fieldSpec struct {
	name     string
	min, max int
}

var fieldSpecs = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

// Parse parses expression and evaluates it in UTC.
func Parse(expression string) (Schedule, error) {
	return ParseInLocation(expression, time.UTC)
}

// ParseInLocation parses expression and evaluates it against the wall
// clock of location. A nil location means UTC.
func ParseInLocation(expression string, location *time.Location) (Schedule, error) {
	if location == nil {
		location = time.UTC
	}
	fields := strings.Fields(expression)
	if len(fields) != len(fieldSpecs) {
		return Schedule{}, fmt.Errorf("cron: expected 5 fields, got %d", len(fields))
	}

	var sets [5]fieldSet
	for i, spec := range fieldSpecs {
		set, err := parseField(fields[i], spec)
		if err != nil {
			return Schedule{}, fmt.Errorf("cron: %s field: %w", spec.name, err)
		}
		sets[i] = set
	}

	return Schedule{
		expression:    strings.Join(fields, " "),
		location:      location,
		minutes:       sets[0],
		hours:         sets[1],
		daysOfMonth:   sets[2],
		months:        sets[3],
		daysOfWeek:    sets[4],
		domRestricted: fields[2] != "*",
		dowRestricted: fields[4] != "*",
	}, nil
}

// String returns the normalized expression.
func (s Schedule) String() string { return s.expression }

// Location returns the location the schedule is evaluated in.
func (s Schedule) Location() *time.Location { return s.location }

// Next returns the earliest matching minute strictly after t. The
// result is expressed in the schedule's location. Wall-clock minutes
// skipped by a DST transition never match.
func (s Schedule) Next(t time.Time) (time.Time, error) {
	location := s.location
	if location == nil {
		location = time.UTC
	}
	candidate := t.In(location).Truncate(time.Minute).Add(time.Minute)
	limit := candidate.Add(searchHorizon)

	for candidate.Before(limit) {
		if !s.months.contains(int(candidate.Month())) {
			candidate = time.Date(candidate.Year(), candidate.Month()+1, 1, 0, 0, 0, 0, location)
			continue
		}
		if !s.dayMatches(candidate) {
			candidate = time.Date(candidate.Year(), candidate.Month(), candidate.Day()+1, 0, 0, 0, 0, location)
			continue
		}
		if !s.hours.contains(candidate.Hour()) {
			candidate = time.Date(candidate.Year(), candidate.Month(), candidate.Day(), candidate.Hour()+1, 0, 0, 0, location)
			continue
		}
		if !s.minutes.contains(candidate.Minute()) {
			candidate = candidate.Add(time.Minute)
			continue
		}
		return candidate, nil
	}
	return time.Time{}, fmt.Errorf("cron: %q has no match within five years of %s", s.expression, t.Format(time.RFC3339))
}

func (s Schedule) dayMatches(t time.Time) bool {
	dom := s.daysOfMonth.contains(t.Day())
	dow := s.daysOfWeek.contains(int(t.Weekday()))
	if s.domRestricted && s.dowRestricted {
		return dom || dow
	}
	return dom && dow
}

func parseField(field string, spec fieldSpec) (fieldSet, error) {
	var set fieldSet
	for _, term := range strings.Split(field, ",") {
		termSet, err := parseTerm(term, spec)
		if err != nil {
			return 0, err
		}
		set |= termSet
	}
	return set, nil
}

// parseTerm handles *, */N, V, V-V and V-V/N.
func parseTerm(term string, spec fieldSpec) (fieldSet, error) {
	base, stepText, hasStep := strings.Cut(term, "/")
	step := 1
	if hasStep {
		parsed, err := strconv.Atoi(stepText)
		if err != nil {
			return 0, fmt.Errorf("invalid step %q", stepText)
		}
		if parsed <= 0 {
			return 0, fmt.Errorf("step must be positive, got %d", parsed)
		}
		step = parsed
	}

	low, high := spec.min, spec.max
	switch {
	case base == "*":
	case strings.Contains(base, "-"):
		lowText, highText, _ := strings.Cut(base, "-")
		var err error
		if low, err = strconv.Atoi(lowText); err != nil {
			return 0, fmt.Errorf("invalid range start %q", lowText)
		}
		if high, err = strconv.Atoi(highText); err != nil {
			return 0, fmt.Errorf("invalid range end %q", highText)
		}
		if low > high {
			return 0, fmt.Errorf("range start %d > end %d", low, high)
		}
	default:
		value, err := strconv.Atoi(base)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q", base)
		}
		low, high = value, value
		if hasStep {
			high = spec.max
		}
	}

	if low < spec.min || high > spec.max {
		return 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d", spec.min, spec.max, low, high)
	}

	var set fieldSet
	for value := low; value <= high; value += step {
		set |= 1 << uint(value)
	}
	return set, nil
}
