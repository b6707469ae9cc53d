// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds secret bytes outside the Go heap. It must not be copied.
// Reading a closed Buffer panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	locked bool
	closed bool
}

// NewFromBytes copies source into a protected region and zeroes source.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: empty secret")
	}

	data, err := unix.Mmap(-1, 0, len(source), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	// Best effort: containers often run with a tiny RLIMIT_MEMLOCK.
	locked := unix.Mlock(data) == nil
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)

	copy(data, source)
	Zero(source)
	return &Buffer{data: data, locked: locked}, nil
}

// String returns a heap copy of the secret for API boundaries that need
// a string.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return string(b.data)
}

// Len returns the secret length, or 0 after Close.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Locked reports whether the region is locked against swap.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Close zeroes and releases the region. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	Zero(b.data)

	var firstErr error
	if b.locked {
		if err := unix.Munlock(b.data); err != nil {
			firstErr = fmt.Errorf("secret: munlock: %w", err)
		}
	}
	if err := unix.Munmap(b.data); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("secret: munmap: %w", err)
	}
	b.data = nil
	return firstErr
}

// Zero overwrites data with zero bytes.
func Zero(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
