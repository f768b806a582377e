package timeline

import (
	"testing"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 2, 15, 14, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func hours(h int) *int { return &h }

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name        string
		feature     domain.Feature
		start, end  string
		explicit    bool
		unscheduled bool
	}{
		{
			name:     "both explicit",
			feature:  domain.Feature{StartDate: dayPtr("2024-02-01"), EndDate: dayPtr("2024-02-10"), EstimatedHours: hours(80)},
			start:    "2024-02-01",
			end:      "2024-02-10",
			explicit: true,
		},
		{
			name:    "start with one day of hours",
			feature: domain.Feature{StartDate: dayPtr("2024-02-01"), EstimatedHours: hours(8)},
			start:   "2024-02-01",
			end:     "2024-02-02",
		},
		{
			name:    "start with partial day rounds up",
			feature: domain.Feature{StartDate: dayPtr("2024-02-01"), EstimatedHours: hours(12)},
			start:   "2024-02-01",
			end:     "2024-02-03",
		},
		{
			name:    "start falls back to due date",
			feature: domain.Feature{StartDate: dayPtr("2024-02-01"), DueDate: dayPtr("2024-02-20")},
			start:   "2024-02-01",
			end:     "2024-02-20",
		},
		{
			name:    "start with nothing else",
			feature: domain.Feature{StartDate: dayPtr("2024-02-01")},
			start:   "2024-02-01",
			end:     "2024-02-08",
		},
		{
			name:    "due before start is clamped",
			feature: domain.Feature{StartDate: dayPtr("2024-02-10"), DueDate: dayPtr("2024-02-01")},
			start:   "2024-02-10",
			end:     "2024-02-10",
		},
		{
			name:    "end with hours",
			feature: domain.Feature{EndDate: dayPtr("2024-02-10"), EstimatedHours: hours(16)},
			start:   "2024-02-08",
			end:     "2024-02-10",
		},
		{
			name:    "due date only",
			feature: domain.Feature{DueDate: dayPtr("2024-02-10")},
			start:   "2024-02-03",
			end:     "2024-02-10",
		},
		{
			name:    "end date preferred over due date",
			feature: domain.Feature{EndDate: dayPtr("2024-02-10"), DueDate: dayPtr("2024-03-01")},
			start:   "2024-02-03",
			end:     "2024-02-10",
		},
		{
			name:        "no dates with hours",
			feature:     domain.Feature{EstimatedHours: hours(16)},
			start:       "2024-02-15",
			end:         "2024-02-17",
			unscheduled: true,
		},
		{
			name:        "no dates and no hours",
			feature:     domain.Feature{},
			start:       "2024-02-15",
			end:         "2024-02-22",
			unscheduled: true,
		},
		{
			name:        "zero hours treated as missing",
			feature:     domain.Feature{EstimatedHours: hours(0)},
			start:       "2024-02-15",
			end:         "2024-02-22",
			unscheduled: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Resolve(tc.feature, testNow, cfg)
			assert.Equal(t, day(tc.start), r.Start)
			assert.Equal(t, day(tc.end), r.End)
			assert.Equal(t, tc.explicit, r.Explicit)
			assert.Equal(t, tc.unscheduled, r.Unscheduled)
		})
	}
}

func TestResolve_ExplicitReturnedExactly(t *testing.T) {
	f := domain.Feature{StartDate: dayPtr("2024-03-10"), EndDate: dayPtr("2024-03-01")}
	r := Resolve(f, testNow, DefaultConfig())
	assert.Equal(t, day("2024-03-10"), r.Start)
	assert.Equal(t, day("2024-03-01"), r.End, "stored pairs are never rewritten")
}

func TestResolve_CustomHoursPerDay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HoursPerDay = 6
	r := Resolve(domain.Feature{StartDate: dayPtr("2024-02-01"), EstimatedHours: hours(13)}, testNow, cfg)
	assert.Equal(t, 3, r.Days())
}
