package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/attendly/attendly/internal/config"
	"github.com/attendly/attendly/internal/domain/attendee"
	"github.com/attendly/attendly/internal/domain/event"
	"github.com/attendly/attendly/internal/tz"
	"github.com/gin-gonic/gin"
)

type AttendeesStore interface {
	Register(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error)
	ListByEvent(ctx context.Context, eventID int64, skip, limit int) ([]attendee.Attendee, int, error)
}

type AttendeesHandler struct {
	repo   AttendeesStore
	events EventsStore
	zones  tz.Resolver
}

func NewAttendeesHandler(repo AttendeesStore, events EventsStore, zones tz.Resolver) *AttendeesHandler {
	return &AttendeesHandler{repo: repo, events: events, zones: zones}
}

type attendeeView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// the owning event's window, localized; null when the event is gone
	EventID        int64   `json:"event_id"`
	EventStartTime *string `json:"event_start_time"`
	EventEndTime   *string `json:"event_end_time"`
}

type attendeePage struct {
	Total     int            `json:"total"`
	Skip      int            `json:"skip"`
	Limit     int            `json:"limit"`
	Attendees []attendeeView `json:"attendees"`
}

func eventIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id < 1 {
		RespondBadRequest(ctx, "invalid_id", "event id must be a positive integer")
		return 0, false
	}

	return id, true
}

func (h *AttendeesHandler) Register(ctx *gin.Context) {
	eventID, ok := eventIDParam(ctx)

	if !ok {
		return
	}

	var req attendee.CreateAttendeeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	a, err := h.repo.Register(cctx, eventID, req)

	if err != nil {
		switch {
		case errors.Is(err, attendee.ErrEventFull):
			RespondBadRequest(ctx, "event_full", "Event is full.")
		case errors.Is(err, attendee.ErrAlreadyRegistered):
			RespondBadRequest(ctx, "already_registered", "This email is already registered for this event.")
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		default:
			RespondInternal(ctx, "Could not register for event")
		}
		return
	}

	ctx.JSON(http.StatusOK, a)
}

func (h *AttendeesHandler) ListForEvent(ctx *gin.Context) {
	eventID, ok := eventIDParam(ctx)

	if !ok {
		return
	}

	zone := ctx.DefaultQuery("timezone", "UTC")

	loc, err := h.zones.Zone(zone)

	if err != nil {
		RespondBadRequest(ctx, "invalid_timezone", "Invalid timezone: "+zone)
		return
	}

	skip, limit := pageParams(ctx)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	attendees, total, err := h.repo.ListByEvent(cctx, eventID, skip, limit)

	if err != nil {
		RespondInternal(ctx, "Could not list attendees")
		return
	}

	// one lookup covers every row; a missing event leaves the window
	// fields null rather than failing the listing
	var startStr, endStr *string

	e, err := h.events.GetByID(cctx, eventID)

	if err == nil {
		s := tz.Render(e.StartTime, loc)
		en := tz.Render(e.EndTime, loc)
		startStr, endStr = &s, &en
	} else if !errors.Is(err, event.ErrNotFound) {
		RespondInternal(ctx, "Could not list attendees")
		return
	}

	page := attendeePage{
		Total:     total,
		Skip:      skip,
		Limit:     limit,
		Attendees: make([]attendeeView, 0, len(attendees)),
	}

	for _, a := range attendees {
		page.Attendees = append(page.Attendees, attendeeView{
			ID:             a.ID,
			Name:           a.Name,
			Email:          a.Email,
			EventID:        a.EventID,
			EventStartTime: startStr,
			EventEndTime:   endStr,
		})
	}

	ctx.JSON(http.StatusOK, page)
}
