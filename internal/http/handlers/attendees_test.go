package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attendly/attendly/internal/domain/attendee"
	"github.com/attendly/attendly/internal/domain/event"
	"github.com/attendly/attendly/internal/http/handlers"
	"github.com/attendly/attendly/internal/tz"
)

type fakeAttendeesRepo struct {
	registerFn func(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error)
	listFn     func(ctx context.Context, eventID int64, skip, limit int) ([]attendee.Attendee, int, error)
}

func (f *fakeAttendeesRepo) Register(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, eventID, req)
	}

	return attendee.Attendee{}, nil
}

func (f *fakeAttendeesRepo) ListByEvent(ctx context.Context, eventID int64, skip, limit int) ([]attendee.Attendee, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, eventID, skip, limit)
	}

	return []attendee.Attendee{}, 0, nil
}

func TestRegisterHandler(t *testing.T) {
	validBody := `{"name": "Ada Lovelace", "email": "ada@example.com"}`

	tests := []struct {
		name           string
		eventID        string
		body           string
		repoSetup      func(*fakeAttendeesRepo)
		wantStatusCode int
		wantErrCode    string
	}{
		{
			name:    "success",
			eventID: "1",
			body:    validBody,
			repoSetup: func(f *fakeAttendeesRepo) {
				f.registerFn = func(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
					return attendee.Attendee{ID: 1, Name: req.Name, Email: req.Email, EventID: eventID}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "non_numeric_event_id",
			eventID:        "abc",
			body:           validBody,
			wantStatusCode: http.StatusBadRequest,
			wantErrCode:    "invalid_id",
		},
		{
			name:           "invalid_email",
			eventID:        "1",
			body:           `{"name": "Ada Lovelace", "email": "not-an-email"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "blank_name",
			eventID:        "1",
			body:           `{"name": "  ", "email": "ada@example.com"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "event_full",
			eventID: "1",
			body:    validBody,
			repoSetup: func(f *fakeAttendeesRepo) {
				f.registerFn = func(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
					return attendee.Attendee{}, attendee.ErrEventFull
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantErrCode:    "event_full",
		},
		{
			name:    "duplicate_email",
			eventID: "1",
			body:    validBody,
			repoSetup: func(f *fakeAttendeesRepo) {
				f.registerFn = func(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
					return attendee.Attendee{}, attendee.ErrAlreadyRegistered
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantErrCode:    "already_registered",
		},
		{
			name:    "unknown_event",
			eventID: "999",
			body:    validBody,
			repoSetup: func(f *fakeAttendeesRepo) {
				f.registerFn = func(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
					return attendee.Attendee{}, event.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:    "repo_error",
			eventID: "1",
			body:    validBody,
			repoSetup: func(f *fakeAttendeesRepo) {
				f.registerFn = func(ctx context.Context, eventID int64, req attendee.CreateAttendeeRequest) (attendee.Attendee, error) {
					return attendee.Attendee{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeAttendeesRepo{}
			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewAttendeesHandler(fakeRepo, &fakeEventsRepo{}, tz.Std{})
			r := setupRouter(http.MethodPost, "/events/:id/register", h.Register)

			req := httptest.NewRequest(http.MethodPost, "/events/"+tt.eventID+"/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantErrCode != "" && !strings.Contains(w.Body.String(), tt.wantErrCode) {
				t.Fatalf("body missing error code %q: %s", tt.wantErrCode, w.Body.String())
			}
		})
	}
}

func TestListAttendeesHandler_Localized(t *testing.T) {
	start := time.Date(2025, 1, 1, 4, 30, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 6, 30, 0, 0, time.UTC)

	fakeRepo := &fakeAttendeesRepo{
		listFn: func(ctx context.Context, eventID int64, skip, limit int) ([]attendee.Attendee, int, error) {
			return []attendee.Attendee{
				{ID: 1, Name: "Ada", Email: "ada@example.com", EventID: eventID},
				{ID: 2, Name: "Brendan", Email: "brendan@example.com", EventID: eventID},
			}, 2, nil
		},
	}

	fakeEvents := &fakeEventsRepo{
		getFn: func(ctx context.Context, id int64) (event.Event, error) {
			return event.Event{ID: id, Name: "IST Event", StartTime: start, EndTime: end, MaxCapacity: 10}, nil
		},
	}

	h := handlers.NewAttendeesHandler(fakeRepo, fakeEvents, tz.Std{})
	r := setupRouter(http.MethodGet, "/events/:id/attendees", h.ListForEvent)

	req := httptest.NewRequest(http.MethodGet, "/events/1/attendees?timezone=Asia/Kolkata", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Total     int `json:"total"`
		Attendees []struct {
			Email          string  `json:"email"`
			EventStartTime *string `json:"event_start_time"`
			EventEndTime   *string `json:"event_end_time"`
		} `json:"attendees"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Total != 2 || len(resp.Attendees) != 2 {
		t.Fatalf("total=%d attendees=%d", resp.Total, len(resp.Attendees))
	}

	first := resp.Attendees[0]

	if first.EventStartTime == nil || *first.EventStartTime != "2025-01-01T10:00:00+05:30" {
		t.Fatalf("event_start_time=%v", first.EventStartTime)
	}

	if first.EventEndTime == nil || *first.EventEndTime != "2025-01-01T12:00:00+05:30" {
		t.Fatalf("event_end_time=%v", first.EventEndTime)
	}
}

func TestListAttendeesHandler_MissingEventLeavesWindowNull(t *testing.T) {
	fakeRepo := &fakeAttendeesRepo{
		listFn: func(ctx context.Context, eventID int64, skip, limit int) ([]attendee.Attendee, int, error) {
			return []attendee.Attendee{
				{ID: 1, Name: "Ada", Email: "ada@example.com", EventID: eventID},
			}, 1, nil
		},
	}

	fakeEvents := &fakeEventsRepo{
		getFn: func(ctx context.Context, id int64) (event.Event, error) {
			return event.Event{}, event.ErrNotFound
		},
	}

	h := handlers.NewAttendeesHandler(fakeRepo, fakeEvents, tz.Std{})
	r := setupRouter(http.MethodGet, "/events/:id/attendees", h.ListForEvent)

	req := httptest.NewRequest(http.MethodGet, "/events/1/attendees", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Attendees []struct {
			EventStartTime *string `json:"event_start_time"`
		} `json:"attendees"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(resp.Attendees) != 1 || resp.Attendees[0].EventStartTime != nil {
		t.Fatalf("expected null event window, body=%s", w.Body.String())
	}
}

func TestListAttendeesHandler_InvalidTimezone(t *testing.T) {
	h := handlers.NewAttendeesHandler(&fakeAttendeesRepo{}, &fakeEventsRepo{}, tz.Std{})
	r := setupRouter(http.MethodGet, "/events/:id/attendees", h.ListForEvent)

	req := httptest.NewRequest(http.MethodGet, "/events/1/attendees?timezone=Mars/Olympus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400, body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "invalid_timezone") {
		t.Fatalf("body missing invalid_timezone: %s", w.Body.String())
	}
}
