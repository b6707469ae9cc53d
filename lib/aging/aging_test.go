// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package aging

import (
	"encoding/json"
	"testing"
)

func mustRecords(t *testing.T, raw string) []Record {
	t.Helper()
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("decoding records: %v", err)
	}
	return records
}

func TestBinScenario(t *testing.T) {
	records := mustRecords(t, `[{"kip_2": "X", "aging_3": 2, "aging_8": 1, "aging_31": 5, "aging_99": 1}]`)
	got := Bin(records, "X")
	want := Bins{2, 1, 0, 0, 6}
	if got != want {
		t.Errorf("Bin = %v, want %v", got, want)
	}
}

func TestBinIsAdditive(t *testing.T) {
	one := `{"kip_2": "X", "aging_1": 9, "aging_4": 3, "aging_14": 2, "aging_20": 1, "aging_25": 4, "aging_100": 7}`
	single := Bin(mustRecords(t, "["+one+"]"), "X")
	double := Bin(mustRecords(t, "["+one+","+one+"]"), "X")

	for i := range single {
		if double[i] != 2*single[i] {
			t.Errorf("band %s: double = %d, want %d", Bands[i].Name, double[i], 2*single[i])
		}
	}
	if single != (Bins{3, 2, 1, 4, 7}) {
		t.Errorf("single = %v", single)
	}
}

func TestBinNoMatch(t *testing.T) {
	records := mustRecords(t, `[{"kip_2": "Y", "aging_5": 5}, {"aging_5": 1}]`)
	if got := Bin(records, "X"); got != (Bins{}) {
		t.Errorf("Bin = %v, want zero bins", got)
	}
	if got := Bin(nil, "X"); got != (Bins{}) {
		t.Errorf("Bin(nil) = %v, want zero bins", got)
	}
}

func TestBinIgnoresDaysOneAndTwo(t *testing.T) {
	records := mustRecords(t, `[{"kip_2": "X", "aging_1": 100, "aging_2": 100}]`)
	if got := Bin(records, "X"); got.Total() != 0 {
		t.Errorf("Bin = %v, want days 1-2 excluded", got)
	}
}

func TestBinOnlyMatchingCategory(t *testing.T) {
	records := mustRecords(t, `[
		{"kip_2": "X", "aging_7": 1},
		{"kip_2": "Y", "aging_7": 50},
		{"kip_2": "X", "aging_21": "3"}
	]`)
	if got, want := Bin(records, "X"), (Bins{1, 0, 0, 3, 0}); got != want {
		t.Errorf("Bin = %v, want %v", got, want)
	}
}

func TestRecordDecoding(t *testing.T) {
	var record Record
	raw := `{"kip_2": "Gangguan", "aging_3": "4", "aging_101": 2, "aging_x": 1, "channel": "ALL", "aging_10": null}`
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if record.Category != "Gangguan" {
		t.Errorf("Category = %q", record.Category)
	}
	if record.Day(3) != 4 || record.Day(101) != 2 || record.Day(10) != 0 || record.Day(50) != 0 {
		t.Errorf("Days = %v", record.Days)
	}

	if err := json.Unmarshal([]byte(`{"kip_2": "X", "aging_3": 1.25}`), &record); err == nil {
		t.Error("fractional counter decoded without error")
	}
	if err := json.Unmarshal([]byte(`{"kip_2": 12}`), &record); err == nil {
		t.Error("numeric category decoded without error")
	}
}
