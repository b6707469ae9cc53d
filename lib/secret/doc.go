// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps the Telegram bot token out of the Go heap.
//
// [Buffer] stores bytes in an anonymous mmap region that is excluded
// from core dumps and, where RLIMIT_MEMLOCK allows, locked against
// swap. Close zeroes and unmaps it. The token leaves the buffer only at
// the HTTP boundary, where the Bot API needs it in the request path.
//
// Sources: [FromEnv] reads an environment variable and unsets it,
// [ReadFile] reads a plain file, and [ReadAgeFile] decrypts an
// age-encrypted file with an identity file.
package secret
