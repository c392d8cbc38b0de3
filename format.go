// ABOUTME: Number formatting for CLI output
// ABOUTME: Transition costs with just enough digits to tell two spots apart, and m:ss track times

package main

import (
	"fmt"
	"math"
)

const (
	minCostPrecision = 2
	maxCostPrecision = 10
)

// FormatCostPair formats two transition costs with the same precision: the
// minimum needed to distinguish them plus one digit, never below two decimals.
func FormatCostPair(a, b float64) (string, string) {
	precision := minCostPrecision

	if a != b && !math.IsNaN(a) && !math.IsNaN(b) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		precision = maxCostPrecision

		for p := 1; p <= maxCostPrecision; p++ {
			if fmt.Sprintf("%.*f", p, a) != fmt.Sprintf("%.*f", p, b) {
				precision = min(max(p+1, minCostPrecision), maxCostPrecision)

				break
			}
		}
	}

	return fmt.Sprintf("%.*f", precision, a), fmt.Sprintf("%.*f", precision, b)
}

// formatTime formats seconds as m:ss, or h:mm:ss for an hour or more
func formatTime(seconds float64) string {
	if seconds <= 0 {
		return "--:--"
	}

	total := int(seconds + 0.5)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
	}

	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
