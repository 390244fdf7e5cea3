package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/attendly/attendly/internal/cache"
	"github.com/attendly/attendly/internal/config"
	"github.com/attendly/attendly/internal/domain/event"
	"github.com/attendly/attendly/internal/tz"
	"github.com/gin-gonic/gin"
)

type EventsStore interface {
	Create(ctx context.Context, e event.Event) (event.Event, error)
	ListUpcoming(ctx context.Context, now time.Time, skip, limit int) ([]event.Event, int, error)
	GetByID(ctx context.Context, id int64) (event.Event, error)
}

type EventsHandler struct {
	repo      EventsStore
	zones     tz.Resolver
	defaultTZ string
	cache     cache.Store
}

func NewEventsHandler(repo EventsStore, zones tz.Resolver, defaultTZ string) *EventsHandler {
	return &EventsHandler{repo: repo, zones: zones, defaultTZ: defaultTZ}
}

// NewEventsHandlerWithCache also serves listings from a short-TTL cache.
func NewEventsHandlerWithCache(repo EventsStore, zones tz.Resolver, defaultTZ string, c cache.Store) *EventsHandler {
	return &EventsHandler{repo: repo, zones: zones, defaultTZ: defaultTZ, cache: c}
}

// listing entries carry display-time strings, localized per request
type eventView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxCapacity int    `json:"max_capacity"`
}

type eventPage struct {
	Total  int         `json:"total"`
	Skip   int         `json:"skip"`
	Limit  int         `json:"limit"`
	Events []eventView `json:"events"`
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	e, fail := event.ValidateCreate(req, h.zones, h.defaultTZ)

	if fail != nil {
		if fail.Level == event.LevelSemantic {
			RespondBadRequest(ctx, "invalid_timezone", fail.Reason)
			return
		}

		RespondUnprocessable(ctx, "Invalid event", gin.H{"fields": []FieldError{
			{Field: fail.Field, Rule: "domain", Message: fail.Reason},
		}})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, e)

	if err != nil {
		if errors.Is(err, event.ErrNameTaken) {
			RespondBadRequest(ctx, "name_taken", fmt.Sprintf("Event with name '%s' already exists.", e.Name))
			return
		}

		RespondInternal(ctx, "Could not create event")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	zone := ctx.DefaultQuery("timezone", h.defaultTZ)

	loc, err := h.zones.Zone(zone)

	if err != nil {
		RespondBadRequest(ctx, "invalid_timezone", "Invalid timezone: "+zone)
		return
	}

	skip, limit := pageParams(ctx)

	key := fmt.Sprintf("events:%s:%d:%d", zone, skip, limit)

	if h.cache != nil {
		if body, ok := h.cache.Get(ctx.Request.Context(), key); ok {
			RespondRawJSONWithETag(ctx, http.StatusOK, body)
			return
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	now := time.Now().UTC()

	events, total, err := h.repo.ListUpcoming(cctx, now, skip, limit)

	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	page := eventPage{
		Total:  total,
		Skip:   skip,
		Limit:  limit,
		Events: make([]eventView, 0, len(events)),
	}

	for _, e := range events {
		page.Events = append(page.Events, eventView{
			ID:          e.ID,
			Name:        e.Name,
			Location:    e.Location,
			StartTime:   tz.Render(e.StartTime, loc),
			EndTime:     tz.Render(e.EndTime, loc),
			MaxCapacity: e.MaxCapacity,
		})
	}

	body, err := json.Marshal(page)

	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	if h.cache != nil {
		h.cache.Set(ctx.Request.Context(), key, body, upcomingTTLCap(events, now))
	}

	RespondRawJSONWithETag(ctx, http.StatusOK, body)
}

// upcomingTTLCap bounds how long a cached page stays valid: once the
// earliest end_time on the page passes, that event no longer belongs
// in an upcoming listing. Zero means no page-derived bound.
func upcomingTTLCap(events []event.Event, now time.Time) time.Duration {
	var bound time.Duration

	for _, e := range events {
		d := e.EndTime.Sub(now)

		if bound == 0 || d < bound {
			bound = d
		}
	}

	return bound
}
