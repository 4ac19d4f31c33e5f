package model

import (
	"restopos/shared/constant"
	"restopos/shared/failure"
	"restopos/shared/model"
	"strings"
	"time"
)

const (
	TableName  = "tables"
	EntityName = "table"

	FieldID                   = "id"
	FieldTableNumber          = "table_number"
	FieldCapacity             = "capacity"
	FieldStatus               = "status"
	FieldShape                = "shape"
	FieldLocation             = "location"
	FieldNotes                = "notes"
	FieldCurrentOrderID       = "current_order_id"
	FieldCurrentReservationID = "current_reservation_id"
	FieldOccupiedAt           = "occupied_at"
	FieldOccupiedBy           = "occupied_by"
	FieldLastCleaned          = "last_cleaned"
	FieldMaintenanceHistory   = "maintenance_history"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusMaintenance:
		return true
	}

	return false
}

type Shape string

const (
	ShapeSquare      Shape = "square"
	ShapeRectangular Shape = "rectangular"
	ShapeRound       Shape = "round"
	ShapeBar         Shape = "bar"
)

type Location string

const (
	LocationIndoor  Location = "indoor"
	LocationOutdoor Location = "outdoor"
	LocationPrivate Location = "private"
	LocationBar     Location = "bar"
)

type MaintenanceStatus string

const (
	MaintenanceReported   MaintenanceStatus = "reported"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
)

// Occupant describes the party sitting at a table.
type Occupant struct {
	CustomerName string `json:"customer_name"`
	PartySize    int    `json:"party_size"`
	ContactInfo  string `json:"contact_info,omitempty"`
}

type MaintenanceEntry struct {
	Issue      string            `json:"issue"`
	ReportedBy string            `json:"reported_by"`
	ReportedAt time.Time         `json:"reported_at"`
	ResolvedBy string            `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time        `json:"resolved_at,omitempty"`
	Status     MaintenanceStatus `json:"status"`
}

// Table is a physical table. Occupancy fields are set exactly when the status is
// occupied. CurrentReservationID is set when the table is reserved, and stays set while
// the party of that reservation is seated.
type Table struct {
	ID                   string                          `db:"id"`
	TableNumber          string                          `db:"table_number"`
	Capacity             int                             `db:"capacity"`
	Status               Status                          `db:"status"`
	Shape                Shape                           `db:"shape"`
	Location             Location                        `db:"location"`
	Notes                string                          `db:"notes"`
	CurrentOrderID       *string                         `db:"current_order_id"`
	CurrentReservationID *string                         `db:"current_reservation_id"`
	OccupiedAt           *time.Time                      `db:"occupied_at"`
	OccupiedBy           model.JSONB[*Occupant]          `db:"occupied_by"`
	LastCleaned          *time.Time                      `db:"last_cleaned"`
	MaintenanceHistory   model.JSONB[[]MaintenanceEntry] `db:"maintenance_history"`
	model.Metadata
}

func (t *Table) invalidTransition(target Status) error {
	return failure.InvalidState("table "+t.TableNumber+" cannot become "+string(target)+" while "+string(t.Status), map[string]any{
		"table_id":     t.ID,
		"table_number": t.TableNumber,
		"status":       t.Status,
		"target":       target,
	})
}

// Occupy seats a party. Only available or reserved tables can be occupied.
func (t *Table) Occupy(occupant Occupant, now time.Time) error {
	occupant.CustomerName = strings.TrimSpace(occupant.CustomerName)

	if occupant.CustomerName == constant.Empty {
		return failure.Validation("customer name is required to occupy a table", "customer_name")
	}

	if occupant.PartySize < 1 {
		return failure.Validation("party size is required to occupy a table", "party_size")
	}

	if t.Status != StatusAvailable && t.Status != StatusReserved {
		return t.invalidTransition(StatusOccupied)
	}

	if occupant.PartySize > t.Capacity {
		return failure.Capacity("party size exceeds table capacity", map[string]any{
			"table_number": t.TableNumber,
			"capacity":     t.Capacity,
			"party_size":   occupant.PartySize,
		})
	}

	t.Status = StatusOccupied
	t.OccupiedAt = &now
	t.OccupiedBy = model.NewJSONB(&occupant)
	t.CurrentReservationID = nil

	return nil
}

// SeatReservation occupies the table with the party of reservationID and keeps the link,
// so closing the reservation later only frees the table while that party is still on it.
func (t *Table) SeatReservation(reservationID string, occupant Occupant, now time.Time) error {
	if t.Status == StatusReserved && !t.IsReservedFor(reservationID) {
		return failure.InvalidState("table "+t.TableNumber+" is held for another reservation", map[string]any{
			"table_id":               t.ID,
			"current_reservation_id": t.CurrentReservationID,
		})
	}

	if err := t.Occupy(occupant, now); err != nil {
		return err
	}

	t.CurrentReservationID = &reservationID

	return nil
}

// Free makes the table available from any status. Calling it on an available table only
// re-stamps LastCleaned. Open maintenance entries are resolved by actor.
func (t *Table) Free(actor string, now time.Time) {
	if t.Status == StatusMaintenance {
		for i := range t.MaintenanceHistory.Val {
			entry := &t.MaintenanceHistory.Val[i]
			if entry.Status == MaintenanceResolved {
				continue
			}

			resolvedAt := now
			entry.Status = MaintenanceResolved
			entry.ResolvedBy = actor
			entry.ResolvedAt = &resolvedAt
		}
	}

	t.Status = StatusAvailable
	t.OccupiedAt = nil
	t.OccupiedBy = model.NewJSONB[*Occupant](nil)
	t.CurrentOrderID = nil
	t.CurrentReservationID = nil
	t.LastCleaned = &now
}

// Reserve holds the table for a reservation. Re-reserving for the same reservation is a no-op.
func (t *Table) Reserve(reservationID string) error {
	if t.IsReservedFor(reservationID) {
		return nil
	}

	if t.Status != StatusAvailable {
		return t.invalidTransition(StatusReserved)
	}

	t.Status = StatusReserved
	t.CurrentReservationID = &reservationID

	return nil
}

// ReleaseReservation returns a table held for reservationID to available. Tables held for
// another reservation, or already seated, are left alone.
func (t *Table) ReleaseReservation(reservationID string) bool {
	if !t.IsReservedFor(reservationID) {
		return false
	}

	t.Status = StatusAvailable
	t.CurrentReservationID = nil

	return true
}

func (t *Table) IsReservedFor(reservationID string) bool {
	return t.Status == StatusReserved && t.linkedTo(reservationID)
}

// IsSeatedFor reports whether the party at the table is the one of reservationID.
func (t *Table) IsSeatedFor(reservationID string) bool {
	return t.Status == StatusOccupied && t.linkedTo(reservationID)
}

// HeldBy reports whether reservationID still holds the table, either reserved or seated.
func (t *Table) HeldBy(reservationID string) bool {
	return t.IsReservedFor(reservationID) || t.IsSeatedFor(reservationID)
}

func (t *Table) linkedTo(reservationID string) bool {
	return t.CurrentReservationID != nil && *t.CurrentReservationID == reservationID
}

// ReportMaintenance takes an available table out of service.
func (t *Table) ReportMaintenance(issue, reporter string, now time.Time) error {
	issue = strings.TrimSpace(issue)
	if issue == constant.Empty {
		return failure.Validation("issue is required to report maintenance", "issue")
	}

	if t.Status != StatusAvailable {
		return t.invalidTransition(StatusMaintenance)
	}

	t.Status = StatusMaintenance
	t.MaintenanceHistory.Val = append(t.MaintenanceHistory.Val, MaintenanceEntry{
		Issue:      issue,
		ReportedBy: reporter,
		ReportedAt: now,
		Status:     MaintenanceReported,
	})

	return nil
}

// LinkOrder points the table at an order.
func (t *Table) LinkOrder(orderID string) {
	t.CurrentOrderID = &orderID
}

// UnlinkOrder clears the order reference if it still points at orderID.
func (t *Table) UnlinkOrder(orderID string) bool {
	if t.CurrentOrderID == nil || *t.CurrentOrderID != orderID {
		return false
	}

	t.CurrentOrderID = nil

	return true
}

// CanDelete rejects deleting a table that is in use.
func (t *Table) CanDelete() error {
	if t.Status == StatusOccupied || t.Status == StatusReserved || t.CurrentOrderID != nil {
		return failure.InvalidState("table "+t.TableNumber+" is in use and cannot be deleted", map[string]any{
			"table_id":         t.ID,
			"status":           t.Status,
			"current_order_id": t.CurrentOrderID,
		})
	}

	return nil
}

// OccupancyMinutes is how long the current party has been seated.
func (t *Table) OccupancyMinutes(now time.Time) int {
	if t.Status != StatusOccupied || t.OccupiedAt == nil {
		return 0
	}

	return int(now.Sub(*t.OccupiedAt).Minutes())
}

// StateFields returns the columns mutated by status transitions.
func (t *Table) StateFields() map[string]any {
	fields := t.Metadata.Fields()
	fields[FieldStatus] = t.Status
	fields[FieldCurrentOrderID] = t.CurrentOrderID
	fields[FieldCurrentReservationID] = t.CurrentReservationID
	fields[FieldOccupiedAt] = t.OccupiedAt
	fields[FieldOccupiedBy] = t.OccupiedBy
	fields[FieldLastCleaned] = t.LastCleaned
	fields[FieldMaintenanceHistory] = t.MaintenanceHistory

	return fields
}
