// SPDX-License-Identifier: Apache-2.0

// Package utils holds small formatting helpers shared across the bridge.
package utils

import (
	"fmt"
	"strings"
)

// ShortHex abbreviates a 0x-prefixed hex string for log output, keeping n
// leading digits. Short inputs pass through unchanged.
func ShortHex(s string, n int) string {
	if !strings.HasPrefix(s, "0x") || len(s) <= 2+n {
		return s
	}
	return s[:2+n] + "…"
}

// FormatWithUnderscores renders a number with underscore thousands
// separators, e.g. 1_234_567.
func FormatWithUnderscores(n uint64) string {
	s := fmt.Sprintf("%d", n)
	parts := make([]string, 0, (len(s)+2)/3)

	for len(s) > 0 {
		chunkSize := len(s) % 3
		if chunkSize == 0 {
			chunkSize = 3
		}
		parts = append(parts, s[:chunkSize])
		s = s[chunkSize:]
	}

	return strings.Join(parts, "_")
}
