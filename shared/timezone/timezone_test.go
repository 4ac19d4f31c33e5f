package timezone_test

import (
	"restopos/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneInit(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.NotEmpty(t, timezone.Format(testTime, "2006-01-02 15:04:05 MST"))

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())
}

func TestStartOfDay(t *testing.T) {
	loc := timezone.GetLocation()
	in := time.Date(2025, 3, 14, 19, 45, 12, 0, loc)

	got := timezone.StartOfDay(in)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), got)
	assert.True(t, timezone.SameDay(in, got))
	assert.False(t, timezone.SameDay(in, got.AddDate(0, 0, 1)))
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, 0, today.Hour())
	assert.True(t, timezone.SameDay(today, timezone.Now()))
}

func TestParseDate(t *testing.T) {
	got, err := timezone.ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.June, got.Month())

	_, err = timezone.ParseDate("06/01/2025")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{name: "midnight", value: "00:00", want: 0},
		{name: "evening", value: "19:30", want: 19*60 + 30},
		{name: "last minute", value: "23:59", want: 23*60 + 59},
		{name: "out of range", value: "24:00", wantErr: true},
		{name: "not a clock", value: "7pm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timezone.ParseClock(tt.value)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
