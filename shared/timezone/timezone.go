package timezone

import (
	"restopos/config"
	"restopos/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")
		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay truncates t to midnight of its calendar day in the application timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, GetLocation())
}

// Today is the calendar date of the restaurant, at midnight.
func Today() time.Time {
	return StartOfDay(Now())
}

// SameDay reports whether a and b fall on the same calendar day in the application timezone.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// ParseDate parses a YYYY-MM-DD string as midnight in the application timezone.
func ParseDate(value string) (time.Time, error) {
	return Parse(constant.DateOnlyFormat, value)
}

// ParseClock parses a 24h HH:MM string into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(constant.ClockFormat, value)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return t.Hour()*60 + t.Minute(), nil
}
