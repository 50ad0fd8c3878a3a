package schedule

import "time"

// SlotCount is the fixed resolution of the day occupancy map: 48 half-hour
// slots.
const SlotCount = 48

const daySeconds = 24 * 60 * 60

// Complement returns the "power available" intervals over
// [day, day+24h) given the sorted blackout intervals of that day.
// Zero-length gaps produce no interval.
func Complement(day time.Time, blackouts []Interval) []Interval {
	dayEnd := day.AddDate(0, 0, 1)
	cursor := day

	var out []Interval
	for _, iv := range blackouts {
		if cursor.Before(iv.Start) {
			out = append(out, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if cursor.Before(dayEnd) {
		out = append(out, Interval{Start: cursor, End: dayEnd})
	}
	return out
}

// SlotMap divides the day into SlotCount half-hour slots and marks every
// slot that any blackout interval intersects. Slot i covers
// [day+i*30min, day+(i+1)*30min).
func SlotMap(day time.Time, blackouts []Interval) [SlotCount]bool {
	var slots [SlotCount]bool
	slot := 30 * time.Minute
	for _, iv := range blackouts {
		startOff := iv.Start.Sub(day)
		endOff := iv.End.Sub(day)
		if endOff > 24*time.Hour {
			endOff = 24 * time.Hour
		}
		if startOff < 0 {
			startOff = 0
		}
		for i := int(startOff / slot); i < SlotCount; i++ {
			if time.Duration(i)*slot >= endOff {
				break
			}
			slots[i] = true
		}
	}
	return slots
}

// PercentOff converts the summed blackout duration into a share of the
// 86400-second day, 0..100.
func PercentOff(total time.Duration) float64 {
	return total.Seconds() / daySeconds * 100
}
