// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package window

import (
	"fmt"
	"time"
)

// APIDateLayout is the date format the metric endpoints accept.
const APIDateLayout = "2006-01-02"

// labelLayout matches the human header format, e.g. "1 Jan 2024".
const labelLayout = "2 Jan 2006"

// Date is a calendar date with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(APIDateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("window: invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return Date{Year: parsed.Year(), Month: parsed.Month(), Day: parsed.Day()}, nil
}

// MustParseDate is ParseDate for package-level constants. Panics on
// malformed input.
func MustParseDate(value string) Date {
	date, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return date
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In returns midnight of the date in location.
func (d Date) In(location *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, location)
}

// Window is one report's date range. Start is midnight of the fixed
// start date; End is the last nanosecond of the day before "now".
type Window struct {
	Start time.Time
	End   time.Time
}

// Calculate returns the window for a report generated at now. now is
// first converted into location so that "yesterday" follows the
// configured zone rather than the host's. A nil location means UTC.
func Calculate(now time.Time, location *time.Location, start Date) Window {
	if location == nil {
		location = time.UTC
	}
	local := now.In(location)
	startOfToday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	endOfYesterday := startOfYesterday.AddDate(0, 0, 1).Add(-time.Nanosecond)

	return Window{
		Start: start.In(location),
		End:   endOfYesterday,
	}
}

// StartDate returns the start formatted for the metric endpoints.
func (w Window) StartDate() string { return w.Start.Format(APIDateLayout) }

// EndDate returns the end formatted for the metric endpoints.
func (w Window) EndDate() string { return w.End.Format(APIDateLayout) }

// Label renders the window for report headers, e.g.
// "1 Jan 2024 - 17 Oct 2026".
func (w Window) Label() string {
	return w.Start.Format(labelLayout) + " - " + w.End.Format(labelLayout)
}
