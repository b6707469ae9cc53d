// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package aging

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/slabot/slabot/lib/sla"
)

// MaxDay is the highest aging counter the endpoint reports.
const MaxDay = 100

const (
	categoryField = "kip_2"
	counterPrefix = "aging_"
)

// Band is an inclusive day range.
type Band struct {
	Name     string
	From, To int
}

// Bands lists the bands in report order.
var Bands = [5]Band{
	{Name: "3-7", From: 3, To: 7},
	{Name: "8-14", From: 8, To: 14},
	{Name: "15-20", From: 15, To: 20},
	{Name: "21-30", From: 21, To: 30},
	{Name: ">30", From: 31, To: MaxDay},
}

// Record is one row of the aging endpoint: a category and its counters
// indexed by day. Missing days read as zero.
type Record struct {
	Category string
	Days     map[int]int64
}

// Day returns the counter for day.
func (r Record) Day(day int) int64 { return r.Days[day] }

// UnmarshalJSON decodes {"kip_2": "X", "aging_3": 2, ...}. Members other
// than kip_2 and aging_N are ignored. Counters may be numbers or numeric
// strings.
func (r *Record) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	record := Record{Days: make(map[int]int64)}
	if raw, ok := members[categoryField]; ok {
		if err := json.Unmarshal(raw, &record.Category); err != nil {
			return fmt.Errorf("%s: %w", categoryField, err)
		}
	}
	for name, raw := range members {
		dayText, ok := strings.CutPrefix(name, counterPrefix)
		if !ok {
			continue
		}
		day, err := strconv.Atoi(dayText)
		if err != nil || day < 1 {
			continue
		}
		count, err := sla.ParseCount(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		record.Days[day] = count
	}
	*r = record
	return nil
}

// Bins holds the band totals, indexed like Bands.
type Bins [5]int64

// Total sums every band.
func (b Bins) Total() int64 {
	var total int64
	for _, value := range b {
		total += value
	}
	return total
}

// Bin sums the counters of every record whose category equals target.
// No matching record yields zero bins.
func Bin(records []Record, target string) Bins {
	var bins Bins
	for _, record := range records {
		if record.Category != target {
			continue
		}
		for i, band := range Bands {
			for day := band.From; day <= band.To; day++ {
				bins[i] += record.Day(day)
			}
		}
	}
	return bins
}
