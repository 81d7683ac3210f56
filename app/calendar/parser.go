package calendar

import (
	"log/slog"
	"strings"
	"time"
)

const (
	icalDateLayout     = "20060102"
	icalDateTimeLayout = "20060102T150405"
)

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";")

// Parser converts raw iCalendar text into Events. It is a best-effort line
// scanner, not a validator: malformed lines are ignored, unparseable dates
// degrade to the 0 sentinel, and one broken VEVENT never aborts the rest of
// the feed. Timed values without a TZID are interpreted in loc.
type Parser struct {
	loc *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{loc: loc}
}

// Run parses a feed body. A VEVENT is emitted only if it carries both a
// summary and a parseable DTSTART; a missing DTEND defaults to the start.
// Parsing is a pure function of the body and the configured location.
func (p *Parser) Run(data []byte) []Event {
	var events []Event
	var current *Event

	for _, line := range unfoldLines(string(data)) {
		switch {
		case line == "BEGIN:VEVENT":
			current = &Event{}
		case line == "END:VEVENT":
			if current != nil {
				if current.Summary != "" && current.Start != 0 {
					if current.End == 0 {
						current.End = current.Start
					}
					events = append(events, *current)
				}
				current = nil
			}
		default:
			if current == nil {
				continue
			}
			p.parseProperty(current, line)
		}
	}

	return events
}

// unfoldLines splits the body on CRLF/LF/CR and joins folded continuation
// lines (a single leading space) back onto the previous logical line.
func unfoldLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\r", "\n")
	raw := strings.Split(data, "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.HasPrefix(line, " ") && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

func (p *Parser) parseProperty(ev *Event, line string) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}

	params := strings.Split(key, ";")

	switch params[0] {
	case "UID":
		ev.UID = textUnescaper.Replace(value)
	case "SUMMARY":
		ev.Summary = textUnescaper.Replace(value)
	case "DESCRIPTION":
		ev.Description = textUnescaper.Replace(value)
	case "LOCATION":
		ev.Location = textUnescaper.Replace(value)
	case "DTSTART":
		ts, allDay := p.parseDate(value, params[1:])
		ev.Start = ts
		ev.AllDay = allDay
	case "DTEND":
		ts, _ := p.parseDate(value, params[1:])
		if ev.AllDay && ts > ev.Start {
			// All-day DTEND is an exclusive boundary: the feed encodes the day
			// after the last active day. Step back one second to land on the
			// last inclusive day.
			ev.End = ts - 1
		} else {
			ev.End = ts
		}
	}
}

// parseDate turns a DTSTART/DTEND value plus its parameters into an epoch
// timestamp and an all-day flag. Failures return the 0 sentinel, which
// downstream filtering excludes.
func (p *Parser) parseDate(value string, params []string) (int64, bool) {
	allDay := false
	tzid := ""

	for _, param := range params {
		if param == "VALUE=DATE" {
			allDay = true
		} else if strings.HasPrefix(param, "TZID=") {
			tzid = param[len("TZID="):]
		}
	}

	value = strings.TrimSpace(value)
	if !allDay && len(value) == 8 {
		allDay = true
	}
	value = strings.TrimSuffix(value, "Z")

	if allDay {
		// All-day values are anchored at midnight UTC: a stable instant that
		// no display timezone can shift onto a neighboring date.
		t, err := time.ParseInLocation(icalDateLayout, value, time.UTC)
		if err != nil {
			slog.Warn("Date parse error", "value", value, "error", err)
			return 0, allDay
		}
		return t.Unix(), true
	}

	loc := p.loc
	if tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		} else {
			slog.Warn("Unknown TZID, using display timezone", "tzid", tzid, "error", err)
		}
	}

	t, err := time.ParseInLocation(icalDateTimeLayout, value, loc)
	if err != nil {
		slog.Warn("Date parse error", "value", value, "error", err)
		return 0, false
	}
	return t.Unix(), false
}
