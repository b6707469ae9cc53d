// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slabot/slabot/lib/aging"
	"github.com/slabot/slabot/lib/clock"
	"github.com/slabot/slabot/lib/markup"
	"github.com/slabot/slabot/lib/sla"
	"github.com/slabot/slabot/lib/window"
	"github.com/slabot/slabot/metrics"
)

// Kind names a report.
type Kind string

const (
	Summary Kind = "summary"
	Detail  Kind = "detail"
)

// Fetcher is the part of metrics.Client the generator uses.
type Fetcher interface {
	FetchCount(ctx context.Context, endpoint metrics.Endpoint, params metrics.Params) (int64, error)
	FetchDelayed(ctx context.Context, endpoint metrics.Endpoint, params metrics.Params) (sla.Dataset, error)
	FetchAging(ctx context.Context, endpoint metrics.Endpoint, params metrics.Params) ([]aging.Record, error)
}

// GeneratorConfig holds configuration for creating a Generator.
type GeneratorConfig struct {
	Fetcher Fetcher
	// Clock supplies "now" for the window. If nil, clock.Real() is used.
	Clock clock.Clock
	// Location is the zone the window is computed in. Required.
	Location  *time.Location
	StartDate window.Date
	// Table resolves bucket labels. Nil means sla.DefaultTable().
	Table sla.Table
	// Excluded bucket keys are never reported.
	Excluded []string
	// TopN is how many categories a bucket lists. Zero means DefaultTopN.
	TopN int
	// Channel is sent with the delayed and aging requests.
	Channel string
	// Notice is Markdown appended to the summary.
	Notice string
	Logger *slog.Logger
}

// Generator fetches and formats reports. It holds no per-report state
// and may run several reports at once.
type Generator struct {
	fetcher   Fetcher
	clock     clock.Clock
	location  *time.Location
	startDate window.Date
	table     sla.Table
	excluded  []string
	topN      int
	channel   string
	notice    string
	logger    *slog.Logger
}

// Report is a generated report ready for delivery.
type Report struct {
	Kind        Kind
	Text        string
	Window      window.Window
	Fingerprint string
}

// NewGenerator creates a Generator.
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if config.Fetcher == nil {
		return nil, fmt.Errorf("report: Fetcher is required")
	}
	if config.Location == nil {
		return nil, fmt.Errorf("report: Location is required")
	}
	generatorClock := config.Clock
	if generatorClock == nil {
		generatorClock = clock.Real()
	}
	table := config.Table
	if table == nil {
		table = sla.DefaultTable()
	}
	topN := config.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		fetcher:   config.Fetcher,
		clock:     generatorClock,
		location:  config.Location,
		startDate: config.StartDate,
		table:     table,
		excluded:  append([]string(nil), config.Excluded...),
		topN:      topN,
		channel:   config.Channel,
		notice:    markup.MarkdownToHTML(config.Notice),
		logger:    logger,
	}, nil
}

// Window returns the window a report generated now would cover.
func (g *Generator) Window() window.Window {
	return window.Calculate(g.clock.Now(), g.location, g.startDate)
}

// Generate dispatches to Summary or Detail.
func (g *Generator) Generate(ctx context.Context, kind Kind) (Report, error) {
	switch kind {
	case Summary:
		return g.Summary(ctx)
	case Detail:
		return g.Detail(ctx)
	default:
		return Report{}, fmt.Errorf("report: unknown kind %q", kind)
	}
}

// Summary fetches the three open counts, the delayed dataset and the
// three closed counts, in that order, and formats the summary.
func (g *Generator) Summary(ctx context.Context) (Report, error) {
	reportWindow := g.Window()
	params := metrics.WindowParams(reportWindow)

	data := SummaryData{
		Label:  reportWindow.Label(),
		TopN:   g.topN,
		Notice: g.notice,
	}

	counts := []struct {
		endpoint metrics.Endpoint
		target   *int64
	}{
		{metrics.Unclosed, &data.Unclosed},
		{metrics.OpenInSLA, &data.OpenInSLA},
		{metrics.OpenOutSLA, &data.OpenOutSLA},
	}
	for _, count := range counts {
		value, err := g.fetcher.FetchCount(ctx, count.endpoint, params)
		if err != nil {
			return Report{}, err
		}
		*count.target = value
	}

	dataset, err := g.fetcher.FetchDelayed(ctx, metrics.KIPOutSLA, params.WithChannel(g.channel))
	if err != nil {
		return Report{}, err
	}
	data.Buckets = g.table.Rank(dataset, g.excluded)

	counts = []struct {
		endpoint metrics.Endpoint
		target   *int64
	}{
		{metrics.Closed, &data.Closed},
		{metrics.ClosedInSLA, &data.ClosedInSLA},
		{metrics.ClosedOutSLA, &data.ClosedOutSLA},
	}
	for _, count := range counts {
		value, err := g.fetcher.FetchCount(ctx, count.endpoint, params)
		if err != nil {
			return Report{}, err
		}
		*count.target = value
	}

	return g.finish(Summary, reportWindow, FormatSummary(data)), nil
}

// Detail fetches the delayed dataset, then the aging records once for
// each ranked bucket that has a leading category, and formats the
// detail report.
func (g *Generator) Detail(ctx context.Context) (Report, error) {
	reportWindow := g.Window()
	params := metrics.WindowParams(reportWindow).WithChannel(g.channel)

	dataset, err := g.fetcher.FetchDelayed(ctx, metrics.KIPOutSLA, params)
	if err != nil {
		return Report{}, err
	}

	data := DetailData{TopN: g.topN}
	for _, bucket := range g.table.Rank(dataset, g.excluded) {
		detail := DetailBucket{
			Label: bucket.Label,
			Top:   sla.TopCategories(bucket.Data, g.topN),
		}
		if len(detail.Top) > 0 {
			records, err := g.fetcher.FetchAging(ctx, metrics.AgingOpenOut, params)
			if err != nil {
				return Report{}, err
			}
			bins := aging.Bin(records, detail.Top[0].Name)
			detail.Aging = &bins
		}
		data.Buckets = append(data.Buckets, detail)
	}

	return g.finish(Detail, reportWindow, FormatDetail(data)), nil
}

func (g *Generator) finish(kind Kind, reportWindow window.Window, text string) Report {
	report := Report{
		Kind:        kind,
		Text:        text,
		Window:      reportWindow,
		Fingerprint: Fingerprint(text),
	}
	g.logger.Debug("generated report",
		"kind", string(kind),
		"start_date", reportWindow.StartDate(),
		"end_date", reportWindow.EndDate(),
		"fingerprint", report.Fingerprint,
		"length", len(text),
	)
	return report
}
