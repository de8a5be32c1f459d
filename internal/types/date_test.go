package types

import (
	"strings"
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*60*60)

func TestNextBillingDate_Daily(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple next day",
			start: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross month boundary",
			start: time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross year boundary",
			start: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day",
			start: time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "timezone preserved",
			start: time.Date(2024, time.January, 31, 23, 30, 0, 0, ist),
			want:  time.Date(2024, time.February, 1, 23, 30, 0, 0, ist),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, BILLING_CYCLE_DAILY)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextBillingDate_Weekly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple 7 days",
			start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross month boundary",
			start: time.Date(2024, time.March, 28, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.April, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross leap February",
			start: time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross non leap February",
			start: time.Date(2023, time.February, 26, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, BILLING_CYCLE_WEEKLY)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextBillingDate_Monthly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple mid month",
			start: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "31st clamps to leap February",
			start: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "31st clamps to non leap February",
			start: time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "31st clamps to 30 day month",
			start: time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross year boundary",
			start: time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "time of day preserved",
			start: time.Date(2024, time.January, 31, 14, 30, 45, 0, time.UTC),
			want:  time.Date(2024, time.February, 29, 14, 30, 45, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, BILLING_CYCLE_MONTHLY)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextBillingDate_Quarterly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple quarter",
			start: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "31st clamps to 30 day month",
			start: time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "November 30 lands on leap February",
			start: time.Date(2023, time.November, 30, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cross year boundary",
			start: time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, BILLING_CYCLE_QUARTERLY)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextBillingDate_Yearly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "simple year",
			start: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day clamps to February 28",
			start: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, BILLING_CYCLE_YEARLY)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextBillingDate_OneTime(t *testing.T) {
	got, err := NextBillingDate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), BILLING_CYCLE_ONE_TIME)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil next billing date, got %v", got)
	}
}

func TestNextBillingDate_InvalidCycle(t *testing.T) {
	_, err := NextBillingDate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), BillingCycle("FORTNIGHTLY"))
	if err == nil {
		t.Fatal("expected error for invalid cycle, got nil")
	}
	if !strings.Contains(err.Error(), "invalid billing cycle") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		want   time.Time
	}{
		{
			name:   "month carry into next year",
			start:  time.Date(2024, time.November, 10, 0, 0, 0, 0, time.UTC),
			months: 3,
			want:   time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "negative months borrow from year",
			start:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			months: -2,
			want:   time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "clamp only when day overflows",
			start:  time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "year addition keeps day when valid",
			start: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
			years: 1,
			want:  time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
