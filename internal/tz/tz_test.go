package tz

import (
	"testing"
	"time"
)

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantOffset bool
		wantErr    bool
	}{
		{name: "rfc3339_utc", in: "2025-01-01T10:00:00Z", wantOffset: true},
		{name: "rfc3339_positive_offset", in: "2025-01-01T10:00:00+05:30", wantOffset: true},
		{name: "naive", in: "2025-01-01T10:00:00", wantOffset: false},
		{name: "naive_fractional", in: "2025-01-01T10:00:00.5", wantOffset: false},
		{name: "date_only", in: "2025-01-01", wantErr: true},
		{name: "garbage", in: "not-a-time", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			_, hasOffset, err := ParseStamp(tt.in)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if hasOffset != tt.wantOffset {
				t.Fatalf("hasOffset=%v, want %v", hasOffset, tt.wantOffset)
			}
		})
	}
}

func TestNormalizeUTC_NaiveLocalizedInZone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	parsed, hasOffset, err := ParseStamp("2025-01-01T10:00:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := NormalizeUTC(parsed, hasOffset, kolkata)

	// 10:00 IST is 04:30 UTC
	want := time.Date(2025, 1, 1, 4, 30, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got.Location() != time.UTC {
		t.Fatalf("stored instant must be anchored in UTC, got %v", got.Location())
	}
}

func TestNormalizeUTC_OffsetConvertedDirectly(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	// the explicit offset wins over the supplied zone
	parsed, hasOffset, err := ParseStamp("2025-01-01T10:00:00-02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := NormalizeUTC(parsed, hasOffset, kolkata)
	want := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// round trip: input wall-clock in a zone survives storage as UTC and
// rendering back into the same zone
func TestRenderRoundTrip(t *testing.T) {
	zones := Std{}

	loc, err := zones.Zone("Asia/Kolkata")
	if err != nil {
		t.Fatalf("zone: %v", err)
	}

	parsed, hasOffset, err := ParseStamp("2025-06-15T18:45:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	stored := NormalizeUTC(parsed, hasOffset, loc)
	rendered := Render(stored, loc)

	if rendered != "2025-06-15T18:45:00+05:30" {
		t.Fatalf("got %q", rendered)
	}
}

func TestStdResolver(t *testing.T) {
	zones := Std{}

	if !zones.IsValidZone("UTC") {
		t.Fatal("UTC must be a valid zone")
	}

	if !zones.IsValidZone("America/New_York") {
		t.Fatal("America/New_York must be a valid zone")
	}

	if zones.IsValidZone("") {
		t.Fatal("empty zone name must be rejected")
	}

	if zones.IsValidZone("Mars/Olympus") {
		t.Fatal("unknown zone must be rejected")
	}
}
