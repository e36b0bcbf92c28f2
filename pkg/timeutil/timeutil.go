package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// All persisted timestamps are UTC. Display times use a fixed UTC+8 offset
// (Philippine Standard Time has no daylight saving).
var Manila = time.FixedZone("Asia/Manila", 8*60*60)

// ToDisplay converts a stored UTC timestamp to the UTC+8 display offset.
func ToDisplay(t time.Time) time.Time {
	return t.In(Manila)
}

// FromDisplay interprets a wall-clock time entered in UTC+8 and returns its UTC instant.
func FromDisplay(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, Manila).UTC()
}

// NormalizeTimeTo24h canonicalizes user-entered times to "HH:mm:ss".
// Accepted inputs: "3:04 PM" / "3:04PM" (12-hour), "15:04" (24-hour),
// and already-normalized "15:04:05".
func NormalizeTimeTo24h(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("time is required")
	}

	layouts := []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "3 PM", "3PM"}
	upper := strings.ToUpper(v)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", s)
}
