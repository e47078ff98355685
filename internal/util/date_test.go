package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "05/01/2024", "2024-01-05T10:00:00Z"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) expected error", s)
		}
	}
}

func TestParseOptionalDate_Empty(t *testing.T) {
	got, err := ParseOptionalDate("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestTruncateToDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	in := time.Date(2024, 3, 9, 23, 45, 0, 0, loc)
	got := TruncateToDate(in)
	if FormatDate(got) != "2024-03-09" {
		t.Errorf("TruncateToDate = %s, want 2024-03-09", FormatDate(got))
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}
}

func TestDateInRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"start bound", start, true},
		{"end bound", end, true},
		{"inside", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"before", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"after", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		if got := DateInRange(tt.date, &start, &end); got != tt.want {
			t.Errorf("%s: DateInRange = %v, want %v", tt.name, got, tt.want)
		}
	}

	if !DateInRange(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), nil, nil) {
		t.Error("open range should contain every date")
	}
}
