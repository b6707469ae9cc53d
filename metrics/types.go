// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/slabot/slabot/lib/window"

// Endpoint identifies a reporting endpoint.
type Endpoint string

const (
	Unclosed     Endpoint = "unclosed"
	OpenInSLA    Endpoint = "open_in_sla"
	OpenOutSLA   Endpoint = "open_out_sla"
	Closed       Endpoint = "closed"
	ClosedInSLA  Endpoint = "closed_in_sla"
	ClosedOutSLA Endpoint = "closed_out_sla"
	KIPOutSLA    Endpoint = "kip_out_sla"
	AgingOpenOut Endpoint = "aging_open_out"
)

// Endpoints lists every identifier in report order.
var Endpoints = []Endpoint{
	Unclosed, OpenInSLA, OpenOutSLA,
	Closed, ClosedInSLA, ClosedOutSLA,
	KIPOutSLA, AgingOpenOut,
}

// Params is the request body of every endpoint.
type Params struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Channel   string `json:"channel,omitempty"`
}

// WindowParams returns the parameters covering w.
func WindowParams(w window.Window) Params {
	return Params{StartDate: w.StartDate(), EndDate: w.EndDate()}
}

// WithChannel returns a copy of p restricted to channel.
func (p Params) WithChannel(channel string) Params {
	p.Channel = channel
	return p
}
