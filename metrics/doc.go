// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics is the client for the ticket reporting endpoints.
//
// Each endpoint is addressed by an [Endpoint] identifier that the
// configured table resolves to a URL. A fetch is one POST whose JSON
// body carries the report window and, for the delayed and aging
// endpoints, a channel:
//
//	{"start_date": "2024-01-01", "end_date": "2026-10-17", "channel": "ALL"}
//
// Responses come in three shapes, each with a typed helper:
//
//   - [Client.FetchCount]: [{"count_id": 42}]
//   - [Client.FetchDelayed]: {"data": {"delayed": {"sla_1": {"data": {...}}}}}
//   - [Client.FetchAging]: [{"kip_2": "X", "aging_1": 0, ...}, ...]
//
// Failures are never retried. Transport errors, non-2xx statuses and
// unknown identifiers are [FetchError]; bodies that do not have the
// expected shape are [MalformedResponseError]. Both carry the endpoint
// identifier and are inspected with errors.As.
package metrics
