package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewNormalizes(t *testing.T) {
	tests := []struct {
		name string
		got  Day
		want string
	}{
		{"plain", New(2024, time.March, 9), "2024-03-09"},
		{"month overflow", New(2024, time.January, 32), "2024-02-01"},
		{"leap day", New(2024, time.February, 29), "2024-02-29"},
		{"non leap overflow", New(2023, time.February, 29), "2023-03-01"},
		{"year rollover", New(2024, time.December, 32), "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.String() != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestFromTimeUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-06-01 20:00 UTC is already June 2nd in Tokyo.
	instant := time.Date(2024, time.June, 1, 20, 0, 0, 0, time.UTC)

	if got := FromTime(instant, time.UTC).String(); got != "2024-06-01" {
		t.Errorf("UTC day = %s, want 2024-06-01", got)
	}
	if got := FromTime(instant, tokyo).String(); got != "2024-06-02" {
		t.Errorf("Tokyo day = %s, want 2024-06-02", got)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to Day
		want     int
	}{
		{"same day", New(2024, 5, 5), New(2024, 5, 5), 0},
		{"next day", New(2024, 5, 5), New(2024, 5, 6), 1},
		{"backwards", New(2024, 5, 6), New(2024, 5, 5), -1},
		{"across month", New(2024, 1, 31), New(2024, 2, 1), 1},
		{"across leap february", New(2024, 2, 28), New(2024, 3, 1), 2},
		{"across year", New(2023, 12, 31), New(2024, 1, 1), 1},
		{"across US DST start", New(2024, 3, 9), New(2024, 3, 11), 2},
		{"across US DST end", New(2024, 11, 2), New(2024, 11, 4), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	d := New(2024, time.March, 10)
	if got := d.AddDays(-1).String(); got != "2024-03-09" {
		t.Errorf("AddDays(-1) = %s", got)
	}
	if got := d.AddDays(22).String(); got != "2024-04-01" {
		t.Errorf("AddDays(22) = %s", got)
	}
}

func TestDSTDayBoundaries(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// The spring-forward day is only 23 hours long. Late evening on that day
	// must still map to the same calendar day, and the next morning to the next.
	evening := time.Date(2024, time.March, 10, 23, 30, 0, 0, ny)
	morning := time.Date(2024, time.March, 11, 0, 30, 0, 0, ny)

	a := FromTime(evening, ny)
	b := FromTime(morning, ny)
	if DaysBetween(a, b) != 1 {
		t.Errorf("expected consecutive days, got %s and %s", a, b)
	}
	// Naive millisecond subtraction would see less than 24h between midnights.
	if hours := b.At(0, 0, ny).Sub(a.At(0, 0, ny)).Hours(); hours != 23 {
		t.Errorf("expected 23 hour day, got %v", hours)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2024-07-04")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d != New(2024, time.July, 4) {
		t.Errorf("Parse() = %+v", d)
	}

	for _, bad := range []string{"", "2024-13-01", "07/04/2024", "2024-7-4"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Date Day `json:"date"`
	}
	data, err := json.Marshal(wrapper{Date: New(2024, 1, 2)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"date":"2024-01-02"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"date":"2023-12-31"}`), &w); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if w.Date != New(2023, 12, 31) {
		t.Errorf("Unmarshal() = %+v", w.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &w); err == nil {
		t.Error("Unmarshal() expected error for malformed date")
	}
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty string returns local", "", false},
		{"Local returns local", "Local", false},
		{"valid timezone UTC", "UTC", false},
		{"invalid timezone", "Invalid/Timezone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	if got := New(2024, time.May, 5).Display(); got != "May 5, 2024" {
		t.Errorf("Display() = %q, want %q", got, "May 5, 2024")
	}
	if got := (Day{}).Display(); got != "" {
		t.Errorf("zero Display() = %q, want empty", got)
	}
}
