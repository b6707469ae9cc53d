// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Command slabot delivers the daily ticket SLA reports to Telegram.
//
// Usage:
//
//	slabot serve                     # poll commands, run the daily schedule
//	slabot send summary|detail|all   # deliver now and exit
//	slabot preview summary|detail    # render in the terminal, deliver nothing
//	slabot window                    # print the current report window
//	slabot version
package main

import (
	"fmt"
	"os"

	// Zone data for hosts without /usr/share/zoneinfo.
	_ "time/tzdata"
)

func main() {
	if err := Root(os.Stdout, os.Stderr).Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
