package wellness

import "strings"

var ticks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters scaled
// between the minimum and maximum value. A flat series renders mid-height.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := len(ticks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(ticks)-1))
		}
		b.WriteRune(ticks[idx])
	}
	return b.String()
}
