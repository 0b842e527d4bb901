package domain

import "time"

// SelectValidIndex returns the index of the last timestamp at or before now in
// an ascending sequence. If every timestamp lies in the future, or the
// sequence is empty, it returns 0.
func SelectValidIndex(timestamps []int64, now time.Time) int {
	nowMillis := now.UnixMilli()
	idx := 0
	for i, ts := range timestamps {
		if ts > nowMillis {
			break
		}
		idx = i
	}
	return idx
}

// IsNightHour reports whether a local hour of day counts as night.
func IsNightHour(hour int) bool {
	return hour < 7 || hour > 20
}
