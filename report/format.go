// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strings"

	"github.com/slabot/slabot/lib/aging"
	"github.com/slabot/slabot/lib/markup"
	"github.com/slabot/slabot/lib/sla"
)

// Separator is the rule between report sections.
const Separator = "-------------------------------"

// DefaultTopN is how many categories a bucket lists.
const DefaultTopN = 3

// SummaryData is everything the summary report shows.
type SummaryData struct {
	// Label is the window label, e.g. "1 Jan 2024 - 17 Oct 2026".
	Label string

	Unclosed   int64
	OpenInSLA  int64
	OpenOutSLA int64

	// Buckets are already ranked.
	Buckets []sla.Bucket
	TopN    int

	Closed       int64
	ClosedInSLA  int64
	ClosedOutSLA int64

	// Notice is HTML appended after the closed counts. Empty adds
	// nothing.
	Notice string
}

// DetailBucket is one ranked bucket of the detail report.
type DetailBucket struct {
	Label string
	Top   sla.Counts
	// Aging holds the bands of Top[0]. Nil when Top is empty.
	Aging *aging.Bins
}

// DetailData is everything the detail report shows.
type DetailData struct {
	Buckets []DetailBucket
	TopN    int
}

// FormatSummary renders the summary report.
func FormatSummary(data SummaryData) string {
	topN := data.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	var builder strings.Builder
	builder.WriteString(Separator + "\n")
	builder.WriteString(markup.Bold("Report "+markup.Escape(data.Label)) + "\n")
	builder.WriteString(Separator + "\n")
	builder.WriteString("\n")

	fmt.Fprintf(&builder, "• <b>Ticket - Unclosed : </b>%d\n", data.Unclosed)
	fmt.Fprintf(&builder, "• <b>Ticket - Open In SLA : </b>%d\n", data.OpenInSLA)
	fmt.Fprintf(&builder, "• <b>Ticket - Open Out SLA : </b>%d\n", data.OpenOutSLA)

	builder.WriteString("\n")
	builder.WriteString(Separator + "\n")
	builder.WriteString("\n")

	for _, bucket := range data.Buckets {
		builder.WriteString(bucketHeader(topN, bucket.Label))
		for _, category := range sla.TopCategories(bucket.Data, topN) {
			fmt.Fprintf(&builder, "• %s: %d\n", markup.Escape(category.Name), category.Count)
		}
		builder.WriteString("\n")
	}

	builder.WriteString(Separator + "\n\n")

	fmt.Fprintf(&builder, "<b>• Ticket - Closed : </b>%d\n", data.Closed)
	fmt.Fprintf(&builder, "<b>• Ticket - Closed In SLA : </b>%d\n", data.ClosedInSLA)
	fmt.Fprintf(&builder, "<b>• Ticket - Closed Out SLA : </b>%d\n", data.ClosedOutSLA)

	if data.Notice != "" {
		builder.WriteString("\n" + data.Notice + "\n")
	}
	return builder.String()
}

// FormatDetail renders the detail report. No buckets renders as the
// empty string.
func FormatDetail(data DetailData) string {
	topN := data.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	var builder strings.Builder
	for _, bucket := range data.Buckets {
		builder.WriteString(bucketHeader(topN, bucket.Label))
		for i, category := range bucket.Top {
			fmt.Fprintf(&builder, "• %s: %d\n", markup.Escape(DisplayCategory(category.Name)), category.Count)
			if i == 0 && bucket.Aging != nil {
				writeAging(&builder, *bucket.Aging)
			}
		}
		builder.WriteString(Separator + "\n\n")
	}
	return builder.String()
}

// DisplayCategory renames the first "aging_" in a category key to
// "Aging ".
func DisplayCategory(name string) string {
	return strings.Replace(name, "aging_", "Aging ", 1)
}

func bucketHeader(topN int, label string) string {
	return markup.Bold(fmt.Sprintf("TOP %d KIP out of SLA %s:", topN, markup.Escape(label))) + "\n"
}

func writeAging(builder *strings.Builder, bins aging.Bins) {
	builder.WriteString("<b>Details:</b>\n")
	for i, band := range aging.Bands {
		fmt.Fprintf(builder, "<b>Aging %s:</b> %d\n", markup.Escape(band.Name), bins[i])
	}
}
