package event

import (
	"strings"

	"github.com/attendly/attendly/internal/tz"
)

type FailureLevel string

const (
	// structurally invalid input
	LevelSchema FailureLevel = "schema"
	// shape is fine but the domain rejects the value
	LevelSemantic FailureLevel = "semantic"
)

type Failure struct {
	Level  FailureLevel
	Field  string
	Reason string
}

func (f *Failure) Error() string {
	return f.Field + " " + f.Reason
}

func schemaFailure(field, reason string) *Failure {
	return &Failure{Level: LevelSchema, Field: field, Reason: reason}
}

// ValidateCreate runs the ordered check pipeline over a create request
// and produces the normalized Event (UTC-at-rest, no ID yet). The same
// pipeline backs the transport handler and any internal construction,
// so an Event value never exists in an invalid state.
func ValidateCreate(req CreateEventRequest, zones tz.Resolver, defaultZone string) (Event, *Failure) {
	name := strings.TrimSpace(req.Name)
	location := strings.TrimSpace(req.Location)

	if name == "" {
		return Event{}, schemaFailure("name", "must not be empty")
	}

	if location == "" {
		return Event{}, schemaFailure("location", "must not be empty")
	}

	start, startHasOffset, err := tz.ParseStamp(req.StartTime)

	if err != nil {
		return Event{}, schemaFailure("start_time", "must be an ISO-8601 timestamp")
	}

	end, endHasOffset, err := tz.ParseStamp(req.EndTime)

	if err != nil {
		return Event{}, schemaFailure("end_time", "must be an ISO-8601 timestamp")
	}

	if req.MaxCapacity < 1 {
		return Event{}, schemaFailure("max_capacity", "must be greater than 0")
	}

	zone := req.Timezone

	if zone == "" {
		zone = defaultZone
	}

	loc, err := zones.Zone(zone)

	if err != nil {
		return Event{}, &Failure{
			Level:  LevelSemantic,
			Field:  "timezone",
			Reason: "Invalid timezone: " + zone,
		}
	}

	startUTC := tz.NormalizeUTC(start, startHasOffset, loc)
	endUTC := tz.NormalizeUTC(end, endHasOffset, loc)

	// compared after normalization: offsets can reorder wall-clock times
	if !startUTC.Before(endUTC) {
		return Event{}, schemaFailure("start_time", "must be before end_time")
	}

	return Event{
		Name:        name,
		Location:    location,
		StartTime:   startUTC,
		EndTime:     endUTC,
		MaxCapacity: req.MaxCapacity,
	}, nil
}
