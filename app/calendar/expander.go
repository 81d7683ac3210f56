package calendar

import (
	"time"

	"github.com/lysyi3m/ical-comb/app/config"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "3:04 pm"

	allDayLabel = "All day"
)

// Expander turns offset-adjusted Events into per-day DisplayEvents within a
// query window.
type Expander struct {
	loc *time.Location
}

func NewExpander(loc *time.Location) *Expander {
	if loc == nil {
		loc = time.UTC
	}
	return &Expander{loc: loc}
}

// Run drops events that miss the [windowStart, windowEnd] instant range and
// expands each survivor into one DisplayEvent per calendar day it spans inside
// the window, tagged with the feed's name and color.
func (e *Expander) Run(events []Event, feed config.Feed, windowStart, windowEnd int64) []DisplayEvent {
	var out []DisplayEvent

	for _, ev := range events {
		// 0 is the parse-failure sentinel; reject it outright instead of
		// relying on the window bounds to exclude epoch zero.
		if ev.Start == 0 || ev.End == 0 {
			continue
		}
		if ev.Start > windowEnd || ev.End < windowStart {
			continue
		}

		var startDT, endDT time.Time
		if ev.AllDay {
			// Read the stored UTC-midnight instants as calendar dates and
			// rebuild them as local midnight / local end-of-day. Converting
			// the instants directly would shift the date in timezones behind
			// UTC.
			su := time.Unix(ev.Start, 0).UTC()
			eu := time.Unix(ev.End, 0).UTC()
			startDT = time.Date(su.Year(), su.Month(), su.Day(), 0, 0, 0, 0, e.loc)
			endDT = time.Date(eu.Year(), eu.Month(), eu.Day(), 23, 59, 59, 0, e.loc)
		} else {
			startDT = time.Unix(ev.Start, 0).In(e.loc)
			endDT = time.Unix(ev.End, 0).In(e.loc)
		}

		startDate := startDT.Format(dateLayout)
		endDate := endDT.Format(dateLayout)
		multiDay := startDate != endDate

		var startTime, endTime string
		if !ev.AllDay {
			startTime = startDT.Format(clockLayout)
			endTime = endDT.Format(clockLayout)
		}

		first := time.Date(startDT.Year(), startDT.Month(), startDT.Day(), 0, 0, 0, 0, e.loc)
		last := time.Date(endDT.Year(), endDT.Month(), endDT.Day(), 0, 0, 0, 0, e.loc)

		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			dayTS := day.Unix()
			if dayTS < windowStart || dayTS > windowEnd {
				continue
			}

			currentDate := day.Format(dateLayout)

			de := DisplayEvent{
				Event:        ev,
				FeedName:     feed.Name,
				FeedColor:    feed.Color,
				StartInstant: ev.Start,
				EndInstant:   ev.End,
				DisplayDate:  dayTS,
				IsMultiDay:   multiDay,
				IsFirstDay:   currentDate == startDate,
				IsLastDay:    currentDate == endDate,
				Day:          day.Day(),
			}

			if ev.AllDay {
				de.DisplayTime = allDayLabel
			} else {
				de.StartTime = startTime
				de.EndTime = endTime
				// Continuation days of a multi-day timed event carry no time
				// label.
				if de.IsFirstDay || !multiDay {
					de.DisplayTime = startTime
				}
			}

			out = append(out, de)
		}
	}

	return out
}
