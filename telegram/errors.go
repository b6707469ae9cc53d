// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"errors"
	"fmt"
	"time"
)

// APIError is a Bot API reply with ok=false.
//
//	var apiErr *telegram.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == 403 { ... }
type APIError struct {
	Method      string
	Code        int
	Description string
	// RetryAfter is set on 429 replies.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s: %d %s", e.Method, e.Code, e.Description)
}

// IsAPIError reports whether err is an *APIError with the given code.
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
