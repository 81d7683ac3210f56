package calendar

// ApplyOffset shifts every timed event by offsetHours. All-day events pass
// through untouched: their instants are calendar dates, not wall-clock times.
// The input slice is never mutated; an offset of 0 returns it as-is.
func ApplyOffset(events []Event, offsetHours int) []Event {
	if offsetHours == 0 {
		return events
	}

	offset := int64(offsetHours) * 3600

	shifted := make([]Event, len(events))
	for i, ev := range events {
		if !ev.AllDay {
			if ev.Start != 0 {
				ev.Start += offset
			}
			if ev.End != 0 {
				ev.End += offset
			}
		}
		shifted[i] = ev
	}
	return shifted
}
