package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/ical-comb/app/calendar"
	"github.com/lysyi3m/ical-comb/app/cfg"
	"github.com/lysyi3m/ical-comb/app/config"
)

func NewHandler(service ServiceInterface, cfg *config.Config) *Handler {
	return &Handler{
		service:   service,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// GetMonth serves the month view: every configured feed's events for the
// requested month, grouped by day.
func (h *Handler) GetMonth(c *gin.Context) {
	year, month, ok := h.monthParams(c)
	if !ok {
		return
	}

	events := h.service.GetEventsForMonth(c.Request.Context(), year, month)
	c.JSON(http.StatusOK, h.monthResponse(year, month, events))
}

// RefreshMonth drops every feed's cache entry and re-runs the month query, so
// the response reflects freshly fetched feeds.
func (h *Handler) RefreshMonth(c *gin.Context) {
	year, month, ok := h.monthParams(c)
	if !ok {
		return
	}

	h.service.InvalidateCache()

	events := h.service.GetEventsForMonth(c.Request.Context(), year, month)
	c.JSON(http.StatusOK, h.monthResponse(year, month, events))
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp": time.Now().In(h.cfg.Location()).Format(time.RFC3339),
		"feeds":     len(h.cfg.Feeds),
		"version":   cfg.GetVersion(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	feeds := make([]map[string]interface{}, 0, len(h.cfg.Feeds))
	for _, feed := range h.cfg.Feeds {
		feeds = append(feeds, map[string]interface{}{
			"name":   feed.Name,
			"color":  feed.Color,
			"offset": feed.Offset,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"uptime":         time.Since(h.startedAt).String(),
		"timezone":       h.cfg.Location().String(),
		"cache_duration": (time.Duration(h.cfg.Settings.CacheDuration) * time.Minute).String(),
		"events_per_day": h.cfg.Settings.EventsPerDay,
		"feeds":          feeds,
	})
}

func (h *Handler) monthParams(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return 0, 0, false
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return 0, 0, false
	}

	return year, time.Month(month), true
}

func (h *Handler) monthResponse(year int, month time.Month, events []calendar.DisplayEvent) MonthResponse {
	days := make(map[int][]EventResponse)
	for day, dayEvents := range calendar.GroupByDay(events) {
		responses := make([]EventResponse, 0, len(dayEvents))
		for _, ev := range dayEvents {
			responses = append(responses, EventResponse{
				UID:            ev.UID,
				Summary:        ev.Summary,
				Description:    ev.Description,
				Location:       ev.Location,
				FeedName:       ev.FeedName,
				FeedColor:      ev.FeedColor,
				AllDay:         ev.AllDay,
				IsMultiDay:     ev.IsMultiDay,
				IsFirstDay:     ev.IsFirstDay,
				IsLastDay:      ev.IsLastDay,
				Day:            ev.Day,
				StartTimestamp: ev.StartInstant,
				EndTimestamp:   ev.EndInstant,
				StartTime:      ev.StartTime,
				EndTime:        ev.EndTime,
				DisplayTime:    ev.DisplayTime,
			})
		}
		days[day] = responses
	}

	legend := make([]LegendEntry, 0, len(h.cfg.Feeds))
	for _, feed := range h.cfg.Feeds {
		if feed.Name == "" || feed.URL == "" {
			continue
		}
		legend = append(legend, LegendEntry{Name: feed.Name, Color: feed.Color})
	}

	return MonthResponse{
		Year:         year,
		Month:        int(month),
		MonthName:    month.String(),
		Timezone:     h.cfg.Location().String(),
		EventsPerDay: h.cfg.Settings.EventsPerDay,
		Total:        len(events),
		Days:         days,
		Legend:       legend,
	}
}
