package api

import (
	"context"
	"time"

	"github.com/lysyi3m/ical-comb/app/calendar"
	"github.com/lysyi3m/ical-comb/app/config"
)

// ServiceInterface is what the handlers need from the ingestion core.
type ServiceInterface interface {
	GetEventsForMonth(ctx context.Context, year int, month time.Month) []calendar.DisplayEvent
	InvalidateCache()
}

var _ ServiceInterface = (*calendar.Service)(nil)

type Handler struct {
	service   ServiceInterface
	cfg       *config.Config
	startedAt time.Time
}

// EventResponse is the JSON shape of one per-day event record.
type EventResponse struct {
	UID         string `json:"uid,omitempty"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	FeedName    string `json:"feed_name"`
	FeedColor   string `json:"feed_color"`

	AllDay     bool `json:"all_day"`
	IsMultiDay bool `json:"is_multi_day"`
	IsFirstDay bool `json:"is_first_day"`
	IsLastDay  bool `json:"is_last_day"`
	Day        int  `json:"day"`

	StartTimestamp int64 `json:"start_timestamp"`
	EndTimestamp   int64 `json:"end_timestamp"`

	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	DisplayTime string `json:"display_time"`
}

type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// MonthResponse is the calendar endpoint payload: sorted events grouped by
// day of month plus the display metadata the rendering layer needs.
type MonthResponse struct {
	Year         int                     `json:"year"`
	Month        int                     `json:"month"`
	MonthName    string                  `json:"month_name"`
	Timezone     string                  `json:"timezone"`
	EventsPerDay int                     `json:"events_per_day"`
	Total        int                     `json:"total"`
	Days         map[int][]EventResponse `json:"days"`
	Legend       []LegendEntry           `json:"legend"`
}
