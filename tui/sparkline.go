// ABOUTME: Renders the set's BPM energy curve as a one-line ntcharts sparkline
// ABOUTME: Long sets are bucketed (averaged) to fit the available width

package tui

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
)

// sparkScale is the chart's max value. Known tempos map onto 1..sparkScale
// so the slowest track still shows a bar and unknown tempos stay blank.
const sparkScale = 8.0

// Sparkline renders values scaled between their min and max, averaging
// buckets when there are more values than width.
// Zero values (unknown tempo) render as a space.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	buckets := bucket(values, width)

	chart := sparkline.New(len(buckets), 1, sparkline.WithMaxValue(sparkScale))
	chart.PushAll(rescale(buckets))
	chart.Draw()

	return strings.TrimRight(chart.View(), "\n")
}

// SparkColumn maps an index into values to its column in Sparkline's output
func SparkColumn(index, count, width int) int {
	if count <= width || count == 0 {
		return index
	}

	return index * width / count
}

// rescale maps known values onto 1..sparkScale by their min and max
func rescale(values []float64) []float64 {
	lo, hi := 0.0, 0.0
	first := true

	for _, v := range values {
		if v <= 0 {
			continue
		}

		if first || v < lo {
			lo = v
		}

		if first || v > hi {
			hi = v
		}

		first = false
	}

	out := make([]float64, len(values))

	for i, v := range values {
		switch {
		case v <= 0:
			out[i] = 0
		case hi == lo:
			out[i] = sparkScale / 2
		default:
			out[i] = 1 + (v-lo)/(hi-lo)*(sparkScale-1)
		}
	}

	return out
}

func bucket(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}

	out := make([]float64, width)

	for col := range width {
		start := col * len(values) / width
		end := max((col+1)*len(values)/width, start+1)

		var sum float64

		n := 0

		for _, v := range values[start:end] {
			if v > 0 {
				sum += v
				n++
			}
		}

		if n > 0 {
			out[col] = sum / float64(n)
		}
	}

	return out
}
