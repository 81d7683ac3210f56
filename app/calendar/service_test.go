package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/ical-comb/app/cache"
	"github.com/lysyi3m/ical-comb/app/config"
)

func testConfig(feeds ...config.Feed) *config.Config {
	return &config.Config{
		Settings: config.Settings{
			CacheDuration: 30,
			EventsPerDay:  3,
			Timezone:      "UTC",
		},
		Feeds: feeds,
	}
}

func icsBody(events string) string {
	return "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n" + events + "END:VCALENDAR\r\n"
}

func TestServiceCacheRoundTrip(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(icsBody("BEGIN:VEVENT\r\n" +
			"UID:a\r\n" +
			"SUMMARY:Meeting\r\n" +
			"DTSTART:20240115T090000Z\r\n" +
			"DTEND:20240115T100000Z\r\n" +
			"END:VEVENT\r\n")))
	}))
	defer server.Close()

	cfg := testConfig(config.Feed{Name: "Work", URL: server.URL, Color: "#111111"})
	service := NewService(cfg, cache.NewMemoryStore(), server.Client(), "test-agent")

	first := service.GetEventsForMonth(context.Background(), 2024, time.January)
	second := service.GetEventsForMonth(context.Background(), 2024, time.January)

	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected exactly 1 fetch within the TTL window, got: %d", got)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected 1 event from both calls, got: %d and %d", len(first), len(second))
	}
	if first[0].Summary != "Meeting" {
		t.Errorf("Expected summary 'Meeting', got: %s", first[0].Summary)
	}
}

func TestServiceInvalidateCacheForcesRefetch(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(icsBody("BEGIN:VEVENT\r\n" +
			"SUMMARY:Meeting\r\n" +
			"DTSTART:20240115T090000Z\r\n" +
			"END:VEVENT\r\n")))
	}))
	defer server.Close()

	cfg := testConfig(config.Feed{Name: "Work", URL: server.URL})
	service := NewService(cfg, cache.NewMemoryStore(), server.Client(), "test-agent")

	service.GetEventsForMonth(context.Background(), 2024, time.January)
	service.InvalidateCache()
	service.GetEventsForMonth(context.Background(), 2024, time.January)

	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Errorf("Expected a second fetch after invalidation, got: %d", got)
	}
}

func TestServiceFailedFeedContributesNothing(t *testing.T) {
	var failingRequests int32

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&failingRequests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(icsBody("BEGIN:VEVENT\r\n" +
			"SUMMARY:Survivor\r\n" +
			"DTSTART:20240110T100000Z\r\n" +
			"END:VEVENT\r\n")))
	}))
	defer working.Close()

	cfg := testConfig(
		config.Feed{Name: "Broken", URL: failing.URL, Color: "#f00"},
		config.Feed{Name: "Working", URL: working.URL, Color: "#0f0"},
	)
	service := NewService(cfg, cache.NewMemoryStore(), nil, "test-agent")

	events := service.GetEventsForMonth(context.Background(), 2024, time.January)

	if len(events) != 1 {
		t.Fatalf("Expected 1 event from the working feed, got: %d", len(events))
	}
	if events[0].FeedName != "Working" {
		t.Errorf("Expected event from 'Working', got: %s", events[0].FeedName)
	}

	// Failures are not cached: the next request retries the broken feed.
	service.GetEventsForMonth(context.Background(), 2024, time.January)
	if got := atomic.LoadInt32(&failingRequests); got != 2 {
		t.Errorf("Expected the failing feed to be retried, got %d requests", got)
	}
}

func TestServiceSortsAllDayFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(icsBody(
			"BEGIN:VEVENT\r\n" +
				"SUMMARY:Early Timed\r\n" +
				"DTSTART:20240105T080000Z\r\n" +
				"DTEND:20240105T090000Z\r\n" +
				"END:VEVENT\r\n" +
				"BEGIN:VEVENT\r\n" +
				"SUMMARY:Later All Day\r\n" +
				"DTSTART;VALUE=DATE:20240120\r\n" +
				"END:VEVENT\r\n")))
	}))
	defer server.Close()

	cfg := testConfig(config.Feed{Name: "Mixed", URL: server.URL})
	service := NewService(cfg, cache.NewMemoryStore(), server.Client(), "test-agent")

	events := service.GetEventsForMonth(context.Background(), 2024, time.January)

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got: %d", len(events))
	}
	if events[0].Summary != "Later All Day" {
		t.Errorf("All-day event must sort before timed events, got first: %s", events[0].Summary)
	}
	if events[1].Summary != "Early Timed" {
		t.Errorf("Expected timed event second, got: %s", events[1].Summary)
	}
}

func TestServiceOffsetCompoundsWithTZID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(icsBody("BEGIN:VEVENT\r\n" +
			"SUMMARY:NY Call\r\n" +
			"DTSTART;TZID=America/New_York:20240601T090000\r\n" +
			"DTEND;TZID=America/New_York:20240601T100000\r\n" +
			"END:VEVENT\r\n")))
	}))
	defer server.Close()

	cfg := testConfig(config.Feed{Name: "NY", URL: server.URL, Offset: -1})
	service := NewService(cfg, cache.NewMemoryStore(), server.Client(), "test-agent")

	events := service.GetEventsForMonth(context.Background(), 2024, time.June)

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got: %d", len(events))
	}

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}

	// 09:00 New York is 13:00 UTC in June; the -1h feed offset lands it at
	// 12:00 UTC. Both conversions apply, each exactly once.
	wantStart := time.Date(2024, 6, 1, 9, 0, 0, 0, ny).Unix() - 3600
	if events[0].StartInstant != wantStart {
		t.Errorf("Expected start instant %d, got: %d", wantStart, events[0].StartInstant)
	}
	if events[0].DisplayTime != "12:00 pm" {
		t.Errorf("Expected display time '12:00 pm', got: %q", events[0].DisplayTime)
	}
}

func TestServiceSkipsFeedsWithoutURL(t *testing.T) {
	cfg := testConfig(config.Feed{Name: "Unconfigured", URL: ""})
	service := NewService(cfg, cache.NewMemoryStore(), nil, "test-agent")

	events := service.GetEventsForMonth(context.Background(), 2024, time.January)

	if len(events) != 0 {
		t.Errorf("Expected no events, got: %d", len(events))
	}
}

func TestGroupByDay(t *testing.T) {
	events := []DisplayEvent{
		{Event: Event{Summary: "A"}, Day: 10},
		{Event: Event{Summary: "B"}, Day: 10},
		{Event: Event{Summary: "C"}, Day: 12},
	}

	byDay := GroupByDay(events)

	if len(byDay) != 2 {
		t.Fatalf("Expected 2 day buckets, got: %d", len(byDay))
	}
	if len(byDay[10]) != 2 {
		t.Errorf("Expected 2 events on day 10, got: %d", len(byDay[10]))
	}
	if byDay[10][0].Summary != "A" || byDay[10][1].Summary != "B" {
		t.Error("Grouping must preserve sorted order within a day")
	}
	if len(byDay[12]) != 1 {
		t.Errorf("Expected 1 event on day 12, got: %d", len(byDay[12]))
	}
}
