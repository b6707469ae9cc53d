// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"fmt"
)

// FetchError reports a request that did not produce a 2xx response.
//
//	var fetchErr *metrics.FetchError
//	if errors.As(err, &fetchErr) && fetchErr.StatusCode == 0 { ... }
type FetchError struct {
	Endpoint Endpoint
	// Message is the human-readable cause.
	Message string
	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int
	// Err is the underlying transport error, if any.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %s", e.Endpoint, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MalformedResponseError reports a 2xx response whose body is not the
// shape the endpoint promises.
type MalformedResponseError struct {
	Endpoint Endpoint
	// Field is the JSON path that was missing or invalid, e.g.
	// "[0].count_id" or "data.delayed".
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed %s response: %s", e.Endpoint, e.Reason)
	}
	return fmt.Sprintf("malformed %s response: %s: %s", e.Endpoint, e.Field, e.Reason)
}

// EndpointOf returns the endpoint a fetch or decode error came from.
func EndpointOf(err error) (Endpoint, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Endpoint, true
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return malformed.Endpoint, true
	}
	return "", false
}
