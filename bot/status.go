// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"sync"
	"time"

	"github.com/slabot/slabot/report"
)

// Trigger names what started an invocation.
type Trigger string

const (
	TriggerStart Trigger = "start"
	TriggerDaily Trigger = "daily"
	TriggerAPI   Trigger = "api"
	TriggerCLI   Trigger = "cli"
)

// Delivery is the outcome of one report within an invocation.
type Delivery struct {
	RunID       string      `json:"run_id"`
	Trigger     Trigger     `json:"trigger"`
	Kind        report.Kind `json:"kind"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	Delivered   bool        `json:"delivered"`
	Fingerprint string      `json:"fingerprint,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Status is a point-in-time copy of recent deliveries.
type Status struct {
	// InFlight counts invocations that have not finished.
	InFlight int `json:"in_flight"`
	// Last holds the most recent delivery of each report kind.
	Last map[report.Kind]Delivery `json:"last"`
}

// statusTracker records deliveries for Status. Nothing survives a
// restart.
type statusTracker struct {
	mu       sync.Mutex
	inFlight int
	last     map[report.Kind]Delivery
}

func newStatusTracker() *statusTracker {
	return &statusTracker{last: make(map[report.Kind]Delivery)}
}

func (s *statusTracker) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
}

func (s *statusTracker) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
}

func (s *statusTracker) record(delivery Delivery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[delivery.Kind] = delivery
}

func (s *statusTracker) snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := make(map[report.Kind]Delivery, len(s.last))
	for kind, delivery := range s.last {
		last[kind] = delivery
	}
	return Status{InFlight: s.inFlight, Last: last}
}
