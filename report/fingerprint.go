// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// fingerprintKey is the BLAKE3 key of report fingerprints: the ASCII
// domain name zero-padded to 32 bytes.
var fingerprintKey = [32]byte{
	's', 'l', 'a', 'b', 'o', 't', '.', 'r', 'e', 'p', 'o', 'r', 't', '.',
	't', 'e', 'x', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint returns a short hex digest of report text. Identical
// reports share a fingerprint, which correlates deliveries in logs and
// the ops status.
func Fingerprint(text string) string {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("report: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(text))
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
