package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestDateSpan(t *testing.T) {
	start, end := day(2024, 3, 1), day(2024, 3, 10)
	assert.Equal(t, "2024-03-01 → 2024-03-10", DateSpan(&start, &end))
	assert.Equal(t, "2024-03-01 → …", DateSpan(&start, nil))
	assert.Equal(t, "--", DateSpan(nil, nil))
}

func TestFormatHours(t *testing.T) {
	h := 12
	assert.Equal(t, "12h", FormatHours(&h))
	assert.Equal(t, "--", stripANSI(FormatHours(nil)))
}

func TestDueLabel(t *testing.T) {
	now := day(2024, 3, 5)
	due := day(2024, 3, 4)
	f := domain.Feature{DueDate: &due, Status: domain.StatusDevelopment}
	assert.Equal(t, "Yesterday", stripANSI(DueLabel(f, now)))

	f.Status = domain.StatusLive
	assert.Equal(t, "Yesterday", stripANSI(DueLabel(f, now)))

	assert.Equal(t, "--", stripANSI(DueLabel(domain.Feature{}, now)))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdefgh", stripANSI(TruncID("abcdefgh-1234")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}
