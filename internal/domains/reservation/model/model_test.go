package model_test

import (
	"restopos/internal/domains/reservation/model"
	"restopos/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evening = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func booking(id, clock string, duration int, status model.Status) model.Reservation {
	return model.Reservation{
		ID:                id,
		ReservationNumber: "RES-" + id,
		TableID:           "t-1",
		Date:              evening,
		Time:              clock,
		Duration:          duration,
		Status:            status,
	}
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name     string
		clock    string
		duration int
		want     model.Window
		wantErr  bool
	}{
		{name: "evening slot", clock: "19:00", duration: 120, want: model.Window{Start: 1140, End: 1260}},
		{name: "default duration", clock: "12:00", want: model.Window{Start: 720, End: 840}},
		{name: "ends exactly at midnight", clock: "22:00", duration: 120, want: model.Window{Start: 1320, End: 1440}},
		{name: "crosses midnight", clock: "23:00", duration: 120, wantErr: true},
		{name: "bad clock", clock: "7pm", duration: 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.NewWindow(tt.clock, tt.duration)

			if tt.wantErr {
				assert.True(t, failure.IsKind(err, failure.KindValidation))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindConflicts(t *testing.T) {
	existing := []model.Reservation{
		booking("alice", "19:00", 120, model.StatusConfirmed),
	}

	tests := []struct {
		name      string
		clock     string
		duration  int
		excludeID string
		want      []string
	}{
		{name: "overlapping start", clock: "20:00", duration: 120, want: []string{"alice"}},
		{name: "back to back after", clock: "21:00", duration: 120},
		{name: "back to back before", clock: "17:00", duration: 120},
		{name: "enclosed", clock: "19:30", duration: 30, want: []string{"alice"}},
		{name: "excluding self", clock: "19:00", duration: 120, excludeID: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := model.NewWindow(tt.clock, tt.duration)
			require.NoError(t, err)

			conflicts := model.FindConflicts(existing, "t-1", evening, window, tt.excludeID)

			ids := []string{}
			for _, c := range conflicts {
				ids = append(ids, c.ID)
			}

			if tt.want == nil {
				assert.Empty(t, ids)

				return
			}

			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFindConflicts_IgnoresInactiveOtherTablesAndDays(t *testing.T) {
	otherTable := booking("bob", "19:00", 120, model.StatusConfirmed)
	otherTable.TableID = "t-2"

	nextDay := booking("carol", "19:00", 120, model.StatusSeated)
	nextDay.Date = evening.AddDate(0, 0, 1)

	existing := []model.Reservation{
		booking("dan", "19:00", 120, model.StatusCancelled),
		booking("erin", "19:00", 120, model.StatusNoShow),
		booking("finn", "19:00", 120, model.StatusCompleted),
		otherTable,
		nextDay,
	}

	window, err := model.NewWindow("19:30", 60)
	require.NoError(t, err)

	assert.Empty(t, model.FindConflicts(existing, "t-1", evening, window, ""))

	existing = append(existing, booking("gus", "20:00", 60, model.StatusSeated))
	assert.Len(t, model.FindConflicts(existing, "t-1", evening, window, ""), 1)
}

func TestReservation_StateMachine(t *testing.T) {
	now := time.Date(2025, 6, 1, 19, 5, 0, 0, time.UTC)

	r := booking("a", "19:00", 120, model.StatusConfirmed)
	require.NoError(t, r.Seat(now))
	assert.Equal(t, model.StatusSeated, r.Status)
	assert.Equal(t, now, *r.SeatedAt)

	assert.True(t, failure.IsKind(r.Cancel(), failure.KindInvalidState))
	assert.True(t, failure.IsKind(r.MarkNoShow(), failure.KindInvalidState))

	require.NoError(t, r.Complete(now.Add(time.Hour)))
	assert.Equal(t, model.StatusCompleted, r.Status)
	assert.NotNil(t, r.CompletedAt)

	assert.True(t, failure.IsKind(r.Seat(now), failure.KindInvalidState))

	walkThrough := booking("b", "12:00", 60, model.StatusConfirmed)
	assert.NoError(t, walkThrough.Complete(now))

	cancelled := booking("c", "12:00", 60, model.StatusConfirmed)
	require.NoError(t, cancelled.Cancel())
	assert.True(t, cancelled.Status.Closed())
	assert.True(t, failure.IsKind(cancelled.Complete(now), failure.KindInvalidState))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, model.CanTransition(model.StatusConfirmed, model.StatusNoShow))
	assert.False(t, model.CanTransition(model.StatusSeated, model.StatusCancelled))
	assert.False(t, model.CanTransition(model.StatusNoShow, model.StatusConfirmed))
}

func TestFormatNumber(t *testing.T) {
	now := time.UnixMilli(1717262400123)

	assert.Equal(t, "RES-1717262400123-0042", model.FormatNumber("RES", now, 42))
	assert.Equal(t, "RES-1717262400123-0001", model.FormatNumber("RES", now, 10001))
}

func TestParseDateAndIsOn(t *testing.T) {
	date, err := model.ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, evening, date)

	_, err = model.ParseDate("01/06/2025")
	assert.True(t, failure.IsKind(err, failure.KindValidation))

	r := booking("a", "19:00", 60, model.StatusConfirmed)
	assert.Equal(t, "2025-06-01", r.DateString())
	assert.Equal(t, evening, model.CivilDate(time.Date(2025, 6, 1, 23, 59, 0, 0, time.FixedZone("X", 3600))))
}

func TestWindow_EndClock(t *testing.T) {
	window, err := model.NewWindow("19:15", 90)
	require.NoError(t, err)

	assert.Equal(t, "20:45", window.EndClock())
}
