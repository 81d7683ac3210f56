package config

import "time"

// Feed is a single configured iCalendar subscription. Feeds are read-only
// after loading; their order in the file is the tie-break order for events
// that sort equal.
type Feed struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Color  string `yaml:"color"`  // display hex, e.g. "#3788d8"
	Offset int    `yaml:"offset"` // manual correction in hours, applied to timed events only
}

// Settings are the global calendar options shared by all feeds.
type Settings struct {
	CacheDuration int    `yaml:"cache_duration"` // minutes
	EventsPerDay  int    `yaml:"events_per_day"` // display limit, echoed to clients
	Timezone      string `yaml:"timezone"`       // IANA identifier for display conversion
}

type Config struct {
	Settings Settings `yaml:"settings"`
	Feeds    []Feed   `yaml:"feeds"`

	loc *time.Location
}
