package intel

import (
	"fmt"
	"sort"
	"strings"
)

// windowBuckets is the enumerated window vocabulary (spec.md §4.3): caller
// windows expressed in minutes are mapped onto one of these labels, ties
// broken by nearest-smaller bucket. Declared ascending by minute value.
var windowBuckets = []struct {
	minutes int64
	label   string
}{
	{60, "1h"},
	{360, "6h"},
	{1440, "24h"},
}

// WindowFromMinutes converts a caller-supplied lookback window (minutes)
// into the canonical enumerated label, rounding down to the nearest-smaller
// bucket. Values below the smallest bucket still map to it — there is no
// label smaller than "1h".
func WindowFromMinutes(minutes int64) string {
	label := windowBuckets[0].label
	for _, b := range windowBuckets {
		if minutes >= b.minutes {
			label = b.label
		}
	}
	return label
}

// WindowFromHours converts an hour-denominated lookback window into the
// same canonical label set as WindowFromMinutes.
func WindowFromHours(hours float64) string {
	return WindowFromMinutes(int64(hours * 60))
}

// EnabledWindows returns the enumerated window vocabulary's labels, in
// ascending order. Used by the Scheduler to enumerate windowed query plan
// items (spec.md §4.5 step 3).
func EnabledWindows() []string {
	labels := make([]string, len(windowBuckets))
	for i, b := range windowBuckets {
		labels[i] = b.label
	}
	return labels
}

// CanonicalKey exposes canonicalKey for other packages (the Scheduler)
// that must build the same query keys Intelligence reads.
func CanonicalKey(method string, params map[string]string) string {
	return canonicalKey(method, params)
}

// canonicalKey builds the stable query key method(param=value, …) from a
// method name and an ordered set of params (spec.md §4.3). Params are
// sorted by name so the same logical query always yields the same key
// regardless of call-site argument order.
func canonicalKey(method string, params map[string]string) string {
	if len(params) == 0 {
		return method + "()"
	}
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", n, params[n]))
	}
	return method + "(" + strings.Join(parts, ", ") + ")"
}
