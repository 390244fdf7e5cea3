// Package tz is the timezone capability the rest of the service is
// handed explicitly: zone-name validation, parsing of incoming
// timestamps, UTC-at-rest normalization and display-time rendering.
package tz

import (
	"errors"
	"fmt"
	"time"
)

type Resolver interface {
	IsValidZone(name string) bool
	Zone(name string) (*time.Location, error)
}

var ErrUnknownZone = errors.New("unknown timezone")

// Std resolves zone names against the platform tz database.
type Std struct{}

func (Std) Zone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}

	loc, err := time.LoadLocation(name)

	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}

	return loc, nil
}

func (s Std) IsValidZone(name string) bool {
	_, err := s.Zone(name)
	return err == nil
}

// naive timestamps carry no offset; they are interpreted in the
// request's zone during normalization
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseStamp accepts RFC 3339 (offset-aware) or a bare
// date-T-time form, and reports which of the two it saw.
func ParseStamp(s string) (t time.Time, hasOffset bool, err error) {
	t, err = time.Parse(time.RFC3339Nano, s)

	if err == nil {
		return t, true, nil
	}

	t, err = time.Parse(naiveLayout, s)

	if err == nil {
		return t, false, nil
	}

	return time.Time{}, false, fmt.Errorf("invalid timestamp %q", s)
}

// NormalizeUTC converts a parsed timestamp to the stored representation:
// UTC wall-clock with the offset stripped. A naive input is first
// localized in loc; an offset-carrying input is converted directly.
func NormalizeUTC(t time.Time, hasOffset bool, loc *time.Location) time.Time {
	if !hasOffset {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	}

	u := t.UTC()

	// re-anchor in UTC so the stored value has no residual zone
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// Render turns a stored UTC instant into an offset-aware ISO-8601
// string in the caller's zone.
func Render(t time.Time, loc *time.Location) string {
	return t.UTC().In(loc).Format(time.RFC3339)
}
