package models

import (
	"testing"
	"time"
)

func TestDeltaBetween(t *testing.T) {
	cases := []struct {
		name string
		then time.Time
		now  time.Time
		want Delta
	}{
		{
			name: "exact years",
			then: time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC),
			now:  time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC),
			want: Delta{Years: 3},
		},
		{
			name: "months borrow from years",
			then: time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC),
			now:  time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
			want: Delta{Months: 3},
		},
		{
			name: "days borrow from months",
			then: time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			now:  time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
			want: Delta{Months: 1, Days: 1},
		},
		{
			name: "hours and minutes",
			then: time.Date(2023, 3, 1, 10, 15, 0, 0, time.UTC),
			now:  time.Date(2023, 3, 1, 12, 45, 0, 0, time.UTC),
			want: Delta{Hours: 2, Minutes: 30},
		},
		{
			name: "minutes borrow from hours",
			then: time.Date(2023, 3, 1, 10, 45, 0, 0, time.UTC),
			now:  time.Date(2023, 3, 1, 12, 15, 0, 0, time.UTC),
			want: Delta{Hours: 1, Minutes: 30},
		},
	}

	for _, c := range cases {
		got := DeltaBetween(c.then, c.now)
		if got != c.want {
			t.Errorf("%s: expected %+v, got %+v", c.name, c.want, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		then time.Time
		want string
	}{
		{
			name: "years and months",
			then: time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC),
			want: "2 years 3 months",
		},
		{
			name: "single units",
			then: time.Date(2022, 5, 14, 11, 0, 0, 0, time.UTC),
			want: "1 year 1 month 1 day 1 hour",
		},
		{
			name: "minutes dropped when larger unit present",
			then: time.Date(2023, 6, 15, 9, 30, 0, 0, time.UTC),
			want: "2 hours",
		},
		{
			name: "minutes alone",
			then: time.Date(2023, 6, 15, 11, 55, 0, 0, time.UTC),
			want: "5 minutes",
		},
		{
			name: "under a minute",
			then: time.Date(2023, 6, 15, 11, 59, 30, 0, time.UTC),
			want: "less than 1 minute",
		},
	}

	for _, c := range cases {
		got := formatDuration(c.then, now)
		if got != c.want {
			t.Errorf("%s: expected %q, got %q", c.name, c.want, got)
		}
	}
}
