// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package opsapi serves slabot's operational HTTP API.
//
// Routes:
//
//	GET  /health/live               process is up
//	GET  /health/ready              poller and scheduler are running
//	GET  /v1/status                 version, current window, recent deliveries
//	POST /v1/reports/{kind}         deliver summary, detail or all now
//
// A report request returns 202 and runs in the background unless
// ?wait=true is given, in which case the response reports the outcome.
// The API has no authentication; bind it to a loopback or otherwise
// private address.
package opsapi
