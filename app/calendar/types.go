package calendar

// Event is a parsed VEVENT, offset-agnostic and window-agnostic. This is the
// shape stored in the feed cache, so it carries JSON tags. Timestamps are
// epoch seconds; 0 marks a value that failed to parse.
//
// Invariants: Start <= End for well-formed feeds; for all-day events Start and
// End are anchored at midnight UTC and End is the last inclusive day of the
// event (the feed's exclusive end boundary is corrected at parse time).
type Event struct {
	UID         string `json:"uid"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	AllDay      bool   `json:"all_day"`
}

// DisplayEvent is one calendar day of an event within a query window. A
// multi-day event yields one DisplayEvent per spanned day inside the window.
// Never cached; built fresh per request.
type DisplayEvent struct {
	Event

	FeedName  string
	FeedColor string

	// StartInstant/EndInstant copy the offset-adjusted event instants; the
	// month sort orders by StartInstant, not by display date.
	StartInstant int64
	EndInstant   int64

	// DisplayDate is the local midnight of the day this record represents.
	DisplayDate int64

	IsMultiDay bool
	IsFirstDay bool
	IsLastDay  bool
	Day        int // day of month, 1-31

	StartTime   string // "" for all-day events
	EndTime     string // "" for all-day events
	DisplayTime string // "All day", a clock time, or "" on continuation days
}
