package calendar

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/lysyi3m/ical-comb/app/cache"
	"github.com/lysyi3m/ical-comb/app/config"
)

// Service is the ingestion core: it owns the feed list, the cache and the
// fetcher, and answers month queries. Constructed once per process and passed
// to the request handlers.
type Service struct {
	cfg      *config.Config
	store    cache.Store
	fetcher  *Fetcher
	parser   *Parser
	expander *Expander
	loc      *time.Location
	locks    keyedLocks
}

func NewService(cfg *config.Config, store cache.Store, client *http.Client, userAgent string) *Service {
	loc := cfg.Location()
	return &Service{
		cfg:      cfg,
		store:    store,
		fetcher:  NewFetcher(client, userAgent),
		parser:   NewParser(loc),
		expander: NewExpander(loc),
		loc:      loc,
	}
}

// GetEventsForMonth returns every configured feed's events for the given
// month, day-expanded and sorted: all-day events first, then by ascending
// start instant, ties in feed configuration order. Feed failures degrade to
// zero events for that feed; the call itself never fails.
func (s *Service) GetEventsForMonth(ctx context.Context, year int, month time.Month) []DisplayEvent {
	windowStart := time.Date(year, month, 1, 0, 0, 0, 0, s.loc).Unix()
	windowEnd := time.Date(year, month+1, 0, 23, 59, 59, 0, s.loc).Unix()

	// Feeds are independent; fetch them in parallel but keep results indexed
	// by configuration position so the stable sort ties break on feed order,
	// not on network completion order.
	results := make([][]DisplayEvent, len(s.cfg.Feeds))
	var wg sync.WaitGroup

	for i, feed := range s.cfg.Feeds {
		if feed.URL == "" {
			continue
		}

		wg.Add(1)
		go func(i int, feed config.Feed) {
			defer wg.Done()
			events := s.feedEvents(ctx, feed)
			events = ApplyOffset(events, feed.Offset)
			results[i] = s.expander.Run(events, feed, windowStart, windowEnd)
		}(i, feed)
	}

	wg.Wait()

	merged := make([]DisplayEvent, 0)
	for _, r := range results {
		merged = append(merged, r...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		return a.StartInstant < b.StartInstant
	})

	return merged
}

// feedEvents returns the parsed, offset-agnostic events for one feed, from
// cache when fresh, otherwise fetched and parsed. Failures are not cached, so
// the next request retries naturally.
func (s *Service) feedEvents(ctx context.Context, feed config.Feed) []Event {
	key := cache.FeedKey(feed.URL)

	// One fetch per key at a time; concurrent requests for the same feed wait
	// and then hit the freshly stored entry.
	unlock := s.locks.lock(key)
	defer unlock()

	raw, ok, err := s.store.Get(key)
	if err != nil {
		slog.Warn("Cache read failed", "feed", feed.Name, "error", err)
	} else if ok {
		var events []Event
		if err := json.Unmarshal([]byte(raw), &events); err == nil {
			return events
		}
		slog.Warn("Discarding malformed cache entry", "feed", feed.Name, "error", err)
		if err := s.store.Delete(key); err != nil {
			slog.Warn("Cache delete failed", "feed", feed.Name, "error", err)
		}
	}

	body, err := s.fetcher.Run(ctx, feed.URL)
	if err != nil {
		slog.Warn("Feed fetch failed", "feed", feed.Name, "error", err)
		return nil
	}
	if len(body) == 0 {
		slog.Warn("Feed returned an empty body", "feed", feed.Name)
		return nil
	}

	events := s.parser.Run(body)
	slog.Debug("Feed parsed", "feed", feed.Name, "events", len(events))

	if data, err := json.Marshal(events); err == nil {
		ttl := time.Duration(s.cfg.Settings.CacheDuration) * time.Minute
		if err := s.store.Set(key, string(data), ttl); err != nil {
			slog.Warn("Cache write failed", "feed", feed.Name, "error", err)
		}
	}

	return events
}

// InvalidateCache drops the cache entries of all configured feeds. Used by
// the explicit refresh action.
func (s *Service) InvalidateCache() {
	for _, feed := range s.cfg.Feeds {
		if feed.URL == "" {
			continue
		}
		if err := s.store.Delete(cache.FeedKey(feed.URL)); err != nil {
			slog.Warn("Cache invalidation failed", "feed", feed.Name, "error", err)
		}
	}
}

// GroupByDay buckets sorted display events by day of month, preserving their
// sorted order within each day.
func GroupByDay(events []DisplayEvent) map[int][]DisplayEvent {
	byDay := make(map[int][]DisplayEvent)
	for _, ev := range events {
		byDay[ev.Day] = append(byDay[ev.Day], ev)
	}
	return byDay
}

// keyedLocks hands out one mutex per cache key.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
