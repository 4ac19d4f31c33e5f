// Package timezone pins every clock reading to the restaurant's local zone.
//
// Reservation days, "today" for the kitchen display and inventory expiry windows
// are all calendar questions, so they must be answered in the zone the restaurant
// operates in rather than the server's:
//
//	today := timezone.Today()                // local midnight
//	day, err := timezone.ParseDate("2025-06-01")
//	mins, err := timezone.ParseClock("19:30") // 1170
//
// The zone comes from APP_TIMEZONE (an IANA name such as "Europe/Rome") and is
// loaded when the package is imported. An unknown name falls back to UTC.
package timezone
