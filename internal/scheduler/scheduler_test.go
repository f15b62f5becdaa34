package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorMonth(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		year  int
		month time.Month
	}{
		{
			name:  "january wraps to december of previous year",
			today: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			year:  2023,
			month: time.December,
		},
		{
			name:  "mid-year",
			today: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			year:  2024,
			month: time.June,
		},
		{
			name:  "december",
			today: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			year:  2024,
			month: time.November,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := priorMonth(tt.today)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.month, month)
		})
	}
}

func TestNextMidnight(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "middle of the day",
			now:  time.Date(2024, 3, 5, 14, 30, 12, 0, time.UTC),
			want: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "just after midnight still waits a full day",
			now:  time.Date(2024, 3, 5, 0, 0, 1, 0, time.UTC),
			want: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			now:  time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
			want: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "year boundary",
			now:  time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextMidnight(tt.now))
		})
	}
}
