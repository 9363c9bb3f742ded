package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestToday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "morning",
			now:  time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly six",
			now:  time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "after midnight belongs to yesterday",
			now:  time.Date(2025, 1, 16, 1, 30, 0, 0, time.UTC),
			want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "before six on the first of the month",
			now:  time.Date(2025, 3, 1, 5, 59, 0, 0, time.UTC),
			want: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Today(tt.now); !got.Equal(tt.want) {
				t.Errorf("Today(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestParsePlannerDate(t *testing.T) {
	// Wednesday, January 15, 2025 at 10:00
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		input string
		want  time.Time
	}{
		{input: "", want: day(15)},
		{input: "today", want: day(15)},
		{input: "TODAY", want: day(15)},
		{input: "yesterday", want: day(14)},
		{input: "tomorrow", want: day(16)},
		{input: "friday", want: day(17)},
		{input: "wednesday", want: day(22)},
		{input: "monday", want: day(20)},
		{input: "last-monday", want: day(13)},
		{input: "last-wednesday", want: day(8)},
		{input: "last-friday", want: day(10)},
		{input: "2025-01-02", want: day(2)},
		{input: " 2025-02-01 ", want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlannerDate(tt.input, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParsePlannerDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePlannerDate_LateNight(t *testing.T) {
	now := time.Date(2025, 1, 16, 0, 45, 0, 0, time.UTC)

	got, err := ParsePlannerDate("today", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Day() != 15 {
		t.Errorf("today at 00:45 = %v, want the 15th", got)
	}

	got, err = ParsePlannerDate("tomorrow", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Day() != 16 {
		t.Errorf("tomorrow at 00:45 = %v, want the 16th", got)
	}
}

func TestParsePlannerDate_Errors(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	for _, input := range []string{"someday", "2025-13-01", "15/01/2025", "last-week", "next-monday"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParsePlannerDate(input, now); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParsePlannerDate(%q) error = %v, want ErrInvalidDateFormat", input, err)
			}
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2025, 1, 15, 14, 30, 45, 123, time.UTC)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := TruncateToDay(in); !got.Equal(want) {
		t.Errorf("TruncateToDay = %v, want %v", got, want)
	}
}

func TestFormatDay(t *testing.T) {
	if got := FormatDay(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)); got != "Wed Jan 15" {
		t.Errorf("FormatDay = %q", got)
	}
}
