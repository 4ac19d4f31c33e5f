package model

import (
	"fmt"
	"restopos/shared/constant"
	"restopos/shared/failure"
	"restopos/shared/model"
	"restopos/shared/timezone"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	// NumberSequence feeds the trailing counter of reservation numbers.
	NumberSequence = "reservation_number_seq"

	DefaultDuration = 120

	FieldID                = "id"
	FieldReservationNumber = "reservation_number"
	FieldCustomerName      = "customer_name"
	FieldCustomerPhone     = "customer_phone"
	FieldCustomerEmail     = "customer_email"
	FieldPartySize         = "party_size"
	FieldDate              = "reservation_date"
	FieldTime              = "start_time"
	FieldDuration          = "duration"
	FieldTableID           = "table_id"
	FieldStatus            = "status"
	FieldOccasion          = "occasion"
	FieldSpecialRequests   = "special_requests"
	FieldNotes             = "notes"
	FieldSeatedAt          = "seated_at"
	FieldCompletedAt       = "completed_at"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusSeated    Status = "seated"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// ActiveStatuses are the statuses that hold a table slot.
var ActiveStatuses = []string{string(StatusConfirmed), string(StatusSeated)}

var transitions = map[Status][]Status{
	StatusConfirmed: {StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted},
}

// CanTransition reports whether the reservation state machine allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

func (s Status) Active() bool {
	return s == StatusConfirmed || s == StatusSeated
}

// Closed statuses accept no further edits.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type Occasion string

const (
	OccasionBirthday    Occasion = "birthday"
	OccasionAnniversary Occasion = "anniversary"
	OccasionBusiness    Occasion = "business"
	OccasionDate        Occasion = "date"
	OccasionFamily      Occasion = "family"
	OccasionOther       Occasion = "other"
)

// Reservation books a table for a window on a single calendar day. Date is a civil date
// held at midnight UTC so it round-trips through a DATE column unchanged.
type Reservation struct {
	ID                string     `db:"id"`
	ReservationNumber string     `db:"reservation_number"`
	CustomerName      string     `db:"customer_name"`
	CustomerPhone     string     `db:"customer_phone"`
	CustomerEmail     string     `db:"customer_email"`
	PartySize         int        `db:"party_size"`
	Date              time.Time  `db:"reservation_date"`
	Time              string     `db:"start_time"`
	Duration          int        `db:"duration"`
	TableID           string     `db:"table_id"`
	Status            Status     `db:"status"`
	Occasion          Occasion   `db:"occasion"`
	SpecialRequests   string     `db:"special_requests"`
	Notes             string     `db:"notes"`
	SeatedAt          *time.Time `db:"seated_at"`
	CompletedAt       *time.Time `db:"completed_at"`
	model.Metadata
}

// Window is a half-open [Start, End) interval in minutes since midnight.
type Window struct {
	Start int
	End   int
}

func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

func (w Window) EndClock() string {
	return fmt.Sprintf("%02d:%02d", w.End/60, w.End%60)
}

// NewWindow builds the slot for a HH:MM start and a duration. Windows that run past
// midnight are rejected.
func NewWindow(clock string, duration int) (Window, error) {
	start, err := timezone.ParseClock(clock)
	if err != nil {
		return Window{}, failure.Validation("time must be HH:MM in 24h format", "time") // nolint:wrapcheck
	}

	if duration <= 0 {
		duration = DefaultDuration
	}

	window := Window{Start: start, End: start + duration}
	if window.End > constant.MinutesPerDay {
		return Window{}, failure.Validation("reservation must end on the same day it starts", "duration") // nolint:wrapcheck
	}

	return window, nil
}

// CivilDate drops the clock and location of t, keeping its calendar day.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD string into a civil date.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return time.Time{}, failure.Validation("date must be YYYY-MM-DD", "date") // nolint:wrapcheck
	}

	return date, nil
}

// FormatNumber renders RES-<unix millis>-<4-digit sequence>.
func FormatNumber(prefix string, now time.Time, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, now.UnixMilli(), seq%10000)
}

func (r *Reservation) Window() (Window, error) {
	return NewWindow(r.Time, r.Duration)
}

func (r *Reservation) DateString() string {
	return r.Date.Format(constant.DateOnlyFormat)
}

// IsOn reports whether the reservation falls on the restaurant's calendar day of now.
func (r *Reservation) IsOn(now time.Time) bool {
	return r.DateString() == timezone.Format(now, constant.DateOnlyFormat)
}

// FindConflicts returns the active reservations in existing that share the table and date
// of the candidate and overlap its window. The reservation with excludeID is ignored.
func FindConflicts(existing []Reservation, tableID string, date time.Time, window Window, excludeID string) []Reservation {
	conflicts := []Reservation{}
	day := date.Format(constant.DateOnlyFormat)

	for _, other := range existing {
		if other.ID == excludeID || other.TableID != tableID || !other.Status.Active() || other.DateString() != day {
			continue
		}

		otherWindow, err := other.Window()
		if err != nil {
			continue
		}

		if window.Overlaps(otherWindow) {
			conflicts = append(conflicts, other)
		}
	}

	return conflicts
}

func (r *Reservation) transition(to Status) error {
	if !CanTransition(r.Status, to) {
		return failure.InvalidState(fmt.Sprintf("reservation %s cannot move from %s to %s", r.ReservationNumber, r.Status, to), map[string]any{
			"reservation_id": r.ID,
			"status":         r.Status,
			"target":         to,
		}) // nolint:wrapcheck
	}

	r.Status = to

	return nil
}

func (r *Reservation) Seat(now time.Time) error {
	if err := r.transition(StatusSeated); err != nil {
		return err
	}

	r.SeatedAt = &now

	return nil
}

func (r *Reservation) Complete(now time.Time) error {
	if err := r.transition(StatusCompleted); err != nil {
		return err
	}

	r.CompletedAt = &now

	return nil
}

func (r *Reservation) Cancel() error {
	return r.transition(StatusCancelled)
}

func (r *Reservation) MarkNoShow() error {
	return r.transition(StatusNoShow)
}

// StateFields returns the columns written by status transitions.
func (r *Reservation) StateFields() map[string]any {
	fields := r.Metadata.Fields()
	fields[FieldStatus] = r.Status
	fields[FieldSeatedAt] = r.SeatedAt
	fields[FieldCompletedAt] = r.CompletedAt

	return fields
}

// DetailFields returns every column an update may touch.
func (r *Reservation) DetailFields() map[string]any {
	fields := r.Metadata.Fields()
	fields[FieldCustomerName] = r.CustomerName
	fields[FieldCustomerPhone] = r.CustomerPhone
	fields[FieldCustomerEmail] = r.CustomerEmail
	fields[FieldPartySize] = r.PartySize
	fields[FieldDate] = r.Date
	fields[FieldTime] = r.Time
	fields[FieldDuration] = r.Duration
	fields[FieldTableID] = r.TableID
	fields[FieldOccasion] = r.Occasion
	fields[FieldSpecialRequests] = r.SpecialRequests
	fields[FieldNotes] = r.Notes

	return fields
}
