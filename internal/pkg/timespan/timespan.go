package timespan

import (
	"fmt"
	"time"
)

// Minutes returns the whole-minute span between start and end.
// A nil bound yields 0. The result is never negative: out-of-order
// timestamps are tolerated instead of rejected.
func Minutes(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	d := end.Sub(*start)
	if d < 0 {
		d = -d
	}
	return int(d / time.Minute)
}

// FormatHM renders a minute count as "H:MM". Negative input formats as the
// zero string. With padHours the hour part is zero-padded to two digits
// ("HH:MM"), the convention used by day-list views; month and CSV views use
// the unpadded form.
func FormatHM(minutes int, padHours bool) string {
	if minutes < 0 {
		minutes = 0
	}
	if padHours {
		return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
