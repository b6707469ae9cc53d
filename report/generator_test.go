// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slabot/slabot/lib/aging"
	"github.com/slabot/slabot/lib/clock"
	"github.com/slabot/slabot/lib/sla"
	"github.com/slabot/slabot/lib/window"
	"github.com/slabot/slabot/metrics"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type fetchCall struct {
	endpoint metrics.Endpoint
	params   metrics.Params
}

// fakeFetcher answers from fixed data and fails the call numbered
// failAt (1-based) when set.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []fetchCall
	counts  map[metrics.Endpoint]int64
	delayed sla.Dataset
	aging   []aging.Record
	failAt  int
	failErr error
}

func (f *fakeFetcher) record(endpoint metrics.Endpoint, params metrics.Params) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{endpoint: endpoint, params: params})
	if f.failAt == len(f.calls) {
		return f.failErr
	}
	return nil
}

func (f *fakeFetcher) FetchCount(ctx context.Context, endpoint metrics.Endpoint, params metrics.Params) (int64, error) {
	if err := f.record(endpoint, params); err != nil {
		return 0, err
	}
	return f.counts[endpoint], nil
}

func (f *fakeFetcher) FetchDelayed(ctx context.Context, endpoint metrics.Endpoint, params metrics.Params) (sla.Dataset, error) {
	if err := f.record(endpoint, params); err != nil {
		return nil, err
	}
	return f.delayed, nil
}

func (f *fakeFetcher) FetchAging(ctx context.Context, endpoint metrics.Endpoint, params metrics.Params) ([]aging.Record, error) {
	if err := f.record(endpoint, params); err != nil {
		return nil, err
	}
	return f.aging, nil
}

func (f *fakeFetcher) endpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, call := range f.calls {
		names = append(names, string(call.endpoint))
	}
	return names
}

func mustDataset(t *testing.T, raw string) sla.Dataset {
	t.Helper()
	var dataset sla.Dataset
	if err := json.Unmarshal([]byte(raw), &dataset); err != nil {
		t.Fatalf("decoding dataset: %v", err)
	}
	return dataset
}

func mustRecords(t *testing.T, raw string) []aging.Record {
	t.Helper()
	var records []aging.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("decoding aging records: %v", err)
	}
	return records
}

func newFixture(t *testing.T) *fakeFetcher {
	return &fakeFetcher{
		counts: map[metrics.Endpoint]int64{
			metrics.Unclosed: 10, metrics.OpenInSLA: 4, metrics.OpenOutSLA: 6,
			metrics.Closed: 100, metrics.ClosedInSLA: 80, metrics.ClosedOutSLA: 20,
		},
		delayed: mustDataset(t, `{
			"sla_1": {"data": {"Login": 2}},
			"sla_7": {"data": {"Hidden": 99}},
			"sla_14": {"data": {"Network": 5, "Billing": 9}},
			"sla_3": {"data": {}}
		}`),
		aging: mustRecords(t, `[
			{"kip_2": "Billing", "aging_3": 2, "aging_9": 1, "aging_45": 6},
			{"kip_2": "Login", "aging_1": 4, "aging_21": 3}
		]`),
	}
}

func newTestGenerator(t *testing.T, fetcher Fetcher, notice string) *Generator {
	t.Helper()
	generator, err := NewGenerator(GeneratorConfig{
		Fetcher:   fetcher,
		Clock:     clock.Fake(time.Date(2026, 10, 18, 8, 0, 0, 0, jakarta)),
		Location:  jakarta,
		StartDate: window.MustParseDate("2024-01-01"),
		Excluded:  sla.DefaultExcluded(),
		Channel:   "ALL",
		Notice:    notice,
	})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return generator
}

func TestNewGeneratorValidates(t *testing.T) {
	if _, err := NewGenerator(GeneratorConfig{Location: jakarta}); err == nil {
		t.Error("expected error without fetcher")
	}
	if _, err := NewGenerator(GeneratorConfig{Fetcher: &fakeFetcher{}}); err == nil {
		t.Error("expected error without location")
	}
}

func TestSummarySequence(t *testing.T) {
	fetcher := newFixture(t)
	generator := newTestGenerator(t, fetcher, "")

	result, err := generator.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	wantOrder := "unclosed,open_in_sla,open_out_sla,kip_out_sla,closed,closed_in_sla,closed_out_sla"
	if got := strings.Join(fetcher.endpoints(), ","); got != wantOrder {
		t.Errorf("fetch order = %s, want %s", got, wantOrder)
	}
	for _, call := range fetcher.calls {
		if call.params.StartDate != "2024-01-01" || call.params.EndDate != "2026-10-17" {
			t.Errorf("%s params = %+v", call.endpoint, call.params)
		}
		wantChannel := ""
		if call.endpoint == metrics.KIPOutSLA {
			wantChannel = "ALL"
		}
		if call.params.Channel != wantChannel {
			t.Errorf("%s channel = %q, want %q", call.endpoint, call.params.Channel, wantChannel)
		}
	}

	if result.Kind != Summary || result.Fingerprint != Fingerprint(result.Text) {
		t.Errorf("report = %+v", result)
	}
	for _, want := range []string{
		"<b>Report 1 Jan 2024 - 17 Oct 2026</b>",
		"<b>TOP 3 KIP out of SLA 14HK:</b>\n• Billing: 9\n• Network: 5\n\n<b>TOP 3 KIP out of SLA 3HK:</b>\n\n<b>TOP 3 KIP out of SLA 1HK:</b>\n• Login: 2\n",
		"<b>• Ticket - Closed In SLA : </b>80\n",
	} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("summary missing %q:\n%s", want, result.Text)
		}
	}
	if strings.Contains(result.Text, "7HK") || strings.Contains(result.Text, "Hidden") {
		t.Errorf("excluded bucket appears in summary:\n%s", result.Text)
	}
}

func TestSummaryAbandonsOnFailure(t *testing.T) {
	for failAt := 1; failAt <= 7; failAt++ {
		fetcher := newFixture(t)
		fetcher.failAt = failAt
		fetcher.failErr = &metrics.FetchError{Endpoint: "x", Message: "boom"}
		generator := newTestGenerator(t, fetcher, "")

		result, err := generator.Summary(context.Background())
		var fetchErr *metrics.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("failAt %d: error = %v, want FetchError", failAt, err)
		}
		if result.Text != "" {
			t.Errorf("failAt %d: partial report returned", failAt)
		}
		if got := len(fetcher.endpoints()); got != failAt {
			t.Errorf("failAt %d: %d fetches issued, want %d", failAt, got, failAt)
		}
	}
}

func TestDetailSequence(t *testing.T) {
	fetcher := newFixture(t)
	generator := newTestGenerator(t, fetcher, "")

	result, err := generator.Detail(context.Background())
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}

	// sla_3 has no categories, so only sla_14 and sla_1 fetch aging.
	wantOrder := "kip_out_sla,aging_open_out,aging_open_out"
	if got := strings.Join(fetcher.endpoints(), ","); got != wantOrder {
		t.Errorf("fetch order = %s, want %s", got, wantOrder)
	}
	for _, call := range fetcher.calls {
		if call.params.Channel != "ALL" {
			t.Errorf("%s channel = %q, want ALL", call.endpoint, call.params.Channel)
		}
	}

	want := "<b>TOP 3 KIP out of SLA 14HK:</b>\n" +
		"• Billing: 9\n" +
		"<b>Details:</b>\n" +
		"<b>Aging 3-7:</b> 2\n" +
		"<b>Aging 8-14:</b> 1\n" +
		"<b>Aging 15-20:</b> 0\n" +
		"<b>Aging 21-30:</b> 0\n" +
		"<b>Aging &gt;30:</b> 6\n" +
		"• Network: 5\n" +
		"-------------------------------\n\n" +
		"<b>TOP 3 KIP out of SLA 3HK:</b>\n" +
		"-------------------------------\n\n" +
		"<b>TOP 3 KIP out of SLA 1HK:</b>\n" +
		"• Login: 2\n" +
		"<b>Details:</b>\n" +
		"<b>Aging 3-7:</b> 0\n" +
		"<b>Aging 8-14:</b> 0\n" +
		"<b>Aging 15-20:</b> 0\n" +
		"<b>Aging 21-30:</b> 3\n" +
		"<b>Aging &gt;30:</b> 0\n" +
		"-------------------------------\n\n"
	if result.Text != want {
		t.Errorf("detail mismatch\ngot:\n%s\nwant:\n%s", result.Text, want)
	}
}

func TestDetailAbandonsOnAgingFailure(t *testing.T) {
	fetcher := newFixture(t)
	fetcher.failAt = 3
	fetcher.failErr = &metrics.MalformedResponseError{Endpoint: metrics.AgingOpenOut, Reason: "bad"}
	generator := newTestGenerator(t, fetcher, "")

	_, err := generator.Detail(context.Background())
	var malformed *metrics.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
}

func TestSummaryNotice(t *testing.T) {
	generator := newTestGenerator(t, newFixture(t), "**Heads up:** portal maintenance")
	result, err := generator.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !strings.HasSuffix(result.Text, "\n<b>Heads up:</b> portal maintenance\n") {
		t.Errorf("summary does not end with the notice:\n%s", result.Text)
	}
}

func TestGenerate(t *testing.T) {
	generator := newTestGenerator(t, newFixture(t), "")
	if _, err := generator.Generate(context.Background(), "weekly"); err == nil {
		t.Error("expected error for unknown kind")
	}
	result, err := generator.Generate(context.Background(), Detail)
	if err != nil || result.Kind != Detail {
		t.Errorf("Generate(detail) = %+v, %v", result, err)
	}
}
