package dto

import (
	"restopos/internal/domains/table/model"
	"restopos/shared"
	gDto "restopos/shared/dto"
	gModel "restopos/shared/model"
	"time"

	"github.com/google/uuid"
)

const defaultMaintenanceIssue = "Marked for maintenance"

type CreateTableRequest struct {
	TableNumber string `json:"table_number" validate:"required,max=10"`
	Capacity    int    `json:"capacity"     validate:"required,min=1,max=20"`
	Shape       string `json:"shape"        validate:"omitempty,oneof=square rectangular round bar"`
	Location    string `json:"location"     validate:"omitempty,oneof=indoor outdoor private bar"`
	Notes       string `json:"notes"        validate:"omitempty,max=500"`
}

func (c *CreateTableRequest) ToModel(actor string, now time.Time) model.Table {
	shape := model.ShapeSquare
	if c.Shape != "" {
		shape = model.Shape(c.Shape)
	}

	location := model.LocationIndoor
	if c.Location != "" {
		location = model.Location(c.Location)
	}

	return model.Table{
		ID:                 uuid.NewString(),
		TableNumber:        c.TableNumber,
		Capacity:           c.Capacity,
		Status:             model.StatusAvailable,
		Shape:              shape,
		Location:           location,
		Notes:              c.Notes,
		OccupiedBy:         gModel.NewJSONB[*model.Occupant](nil),
		LastCleaned:        &now,
		MaintenanceHistory: gModel.NewJSONB([]model.MaintenanceEntry{}),
		Metadata:           gModel.NewMetadata(actor, now),
	}
}

// UpdateTableRequest carries the cosmetic fields. Status changes go through the status endpoint.
type UpdateTableRequest struct {
	TableNumber string `db:"table_number" json:"table_number" validate:"omitempty,max=10"`
	Capacity    int    `db:"capacity"     json:"capacity"     validate:"omitempty,min=1,max=20"`
	Shape       string `db:"shape"        json:"shape"        validate:"omitempty,oneof=square rectangular round bar"`
	Location    string `db:"location"     json:"location"     validate:"omitempty,oneof=indoor outdoor private bar"`
	Notes       string `db:"notes"        json:"notes"        validate:"omitempty,max=500"`
}

type OccupyTableRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=100"`
	PartySize    int    `json:"party_size"    validate:"required,min=1,max=20"`
	ContactInfo  string `json:"contact_info"  validate:"omitempty,max=100"`
}

func (o OccupyTableRequest) ToOccupant() model.Occupant {
	return model.Occupant{
		CustomerName: o.CustomerName,
		PartySize:    o.PartySize,
		ContactInfo:  o.ContactInfo,
	}
}

type MaintenanceRequest struct {
	Issue string `json:"issue" validate:"required,max=500"`
}

// UpdateTableStatusRequest drives PUT /tables/{id}/status. Occupant fields are read only
// when the target is occupied, the issue only for maintenance.
type UpdateTableStatusRequest struct {
	Status       string `json:"status"        validate:"required,oneof=available occupied reserved maintenance"`
	CustomerName string `json:"customer_name" validate:"omitempty,max=100"`
	PartySize    int    `json:"party_size"    validate:"omitempty,min=1,max=20"`
	ContactInfo  string `json:"contact_info"  validate:"omitempty,max=100"`
	Issue        string `json:"issue"         validate:"omitempty,max=500"`
}

func (u UpdateTableStatusRequest) ToOccupant() model.Occupant {
	return model.Occupant{
		CustomerName: u.CustomerName,
		PartySize:    u.PartySize,
		ContactInfo:  u.ContactInfo,
	}
}

// MaintenanceIssue falls back to a generic issue when the dispatcher is not given one.
func (u UpdateTableStatusRequest) MaintenanceIssue() string {
	if u.Issue == "" {
		return defaultMaintenanceIssue
	}

	return u.Issue
}

type TableFilter struct {
	Status      string
	Location    string
	MinCapacity int
}

func (f TableFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.And()
	group.AddIf(model.TableName, model.FieldStatus, f.Status).
		AddIf(model.TableName, model.FieldLocation, f.Location)

	if f.MinCapacity > 0 {
		group.Add(gDto.Filter{
			ArgName:  "min_capacity",
			Field:    model.FieldCapacity,
			Value:    f.MinCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		})
	}

	return group
}

type TableResponse struct {
	ID                   string                   `json:"id"`
	TableNumber          string                   `json:"table_number"`
	Capacity             int                      `json:"capacity"`
	Status               string                   `json:"status"`
	Shape                string                   `json:"shape"`
	Location             string                   `json:"location"`
	Notes                string                   `json:"notes"`
	CurrentOrderID       *string                  `json:"current_order_id"`
	CurrentReservationID *string                  `json:"current_reservation_id"`
	OccupiedAt           *string                  `json:"occupied_at"`
	OccupiedBy           *model.Occupant          `json:"occupied_by"`
	OccupancyMinutes     int                      `json:"occupancy_minutes"`
	LastCleaned          *string                  `json:"last_cleaned"`
	MaintenanceHistory   []model.MaintenanceEntry `json:"maintenance_history"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(table model.Table, now time.Time) {
	r.ID = table.ID
	r.TableNumber = table.TableNumber
	r.Capacity = table.Capacity
	r.Status = string(table.Status)
	r.Shape = string(table.Shape)
	r.Location = string(table.Location)
	r.Notes = table.Notes
	r.CurrentOrderID = table.CurrentOrderID
	r.CurrentReservationID = table.CurrentReservationID
	r.OccupiedAt = gDto.FormatOptionalTime(table.OccupiedAt)
	r.OccupiedBy = table.OccupiedBy.Val
	r.OccupancyMinutes = table.OccupancyMinutes(now)
	r.LastCleaned = gDto.FormatOptionalTime(table.LastCleaned)
	r.MaintenanceHistory = table.MaintenanceHistory.Val
	r.Metadata.FromModel(table.Metadata)

	if r.MaintenanceHistory == nil {
		r.MaintenanceHistory = []model.MaintenanceEntry{}
	}
}

type GetTablesResponse struct {
	gDto.Page[TableResponse]
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int, now time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod, now)
	}
}
