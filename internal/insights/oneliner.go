package insights

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

var labels = map[string]string{
	"mood":       "Mood",
	"sleep":      "Sleep",
	"energy":     "Energy",
	"hydration":  "Hydration",
	"connection": "Connection",
	"gratitude":  "Gratitude",
	"movement":   "Movement",
	"stress":     "Stress",
}

// Label returns the display name for a metric key, or the key itself.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

type metric struct {
	key   string
	value float64
}

// OneLiner summarizes the strongest and weakest metric in one sentence.
// Non-numeric and nil values are ignored; it returns "" when nothing is numeric.
func OneLiner(metrics map[string]any) string {
	var nums []metric
	for k, v := range metrics {
		if f, ok := toFloat(v); ok {
			nums = append(nums, metric{key: k, value: f})
		}
	}
	if len(nums) == 0 {
		return ""
	}

	desc := append([]metric(nil), nums...)
	sort.Slice(desc, func(i, j int) bool {
		if desc[i].value != desc[j].value {
			return desc[i].value > desc[j].value
		}
		return desc[i].key < desc[j].key
	})

	asc := append([]metric(nil), nums...)
	sort.Slice(asc, func(i, j int) bool {
		if asc[i].value != asc[j].value {
			return asc[i].value < asc[j].value
		}
		return asc[i].key < asc[j].key
	})

	return fmt.Sprintf("Today's center is %s; support %s for balance.", Label(desc[0].key), Label(asc[0].key))
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
