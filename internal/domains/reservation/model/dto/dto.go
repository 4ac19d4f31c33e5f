package dto

import (
	"restopos/internal/domains/reservation/model"
	"restopos/shared"
	gDto "restopos/shared/dto"
	gModel "restopos/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	CustomerName    string `json:"customer_name"    validate:"required,max=100"`
	CustomerPhone   string `json:"customer_phone"   validate:"required,max=20"`
	CustomerEmail   string `json:"customer_email"   validate:"omitempty,email,max=100"`
	PartySize       int    `json:"party_size"       validate:"required,min=1,max=20"`
	Date            string `json:"date"             validate:"required,isodate"`
	Time            string `json:"time"             validate:"required,hhmm"`
	Duration        int    `json:"duration"         validate:"omitempty,min=30,max=480"`
	TableID         string `json:"table_id"         validate:"required,uuid"`
	Occasion        string `json:"occasion"         validate:"omitempty,oneof=birthday anniversary business date family other"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
	Notes           string `json:"notes"            validate:"omitempty,max=500"`
}

func (c *CreateReservationRequest) ToModel(date time.Time, number, actor string, now time.Time) model.Reservation {
	duration := c.Duration
	if duration == 0 {
		duration = model.DefaultDuration
	}

	occasion := model.OccasionOther
	if c.Occasion != "" {
		occasion = model.Occasion(c.Occasion)
	}

	return model.Reservation{
		ID:                uuid.NewString(),
		ReservationNumber: number,
		CustomerName:      c.CustomerName,
		CustomerPhone:     c.CustomerPhone,
		CustomerEmail:     c.CustomerEmail,
		PartySize:         c.PartySize,
		Date:              date,
		Time:              c.Time,
		Duration:          duration,
		TableID:           c.TableID,
		Status:            model.StatusConfirmed,
		Occasion:          occasion,
		SpecialRequests:   c.SpecialRequests,
		Notes:             c.Notes,
		Metadata:          gModel.NewMetadata(actor, now),
	}
}

type UpdateReservationRequest struct {
	CustomerName    string `json:"customer_name"    validate:"omitempty,max=100"`
	CustomerPhone   string `json:"customer_phone"   validate:"omitempty,max=20"`
	CustomerEmail   string `json:"customer_email"   validate:"omitempty,email,max=100"`
	PartySize       int    `json:"party_size"       validate:"omitempty,min=1,max=20"`
	Date            string `json:"date"             validate:"omitempty,isodate"`
	Time            string `json:"time"             validate:"omitempty,hhmm"`
	Duration        int    `json:"duration"         validate:"omitempty,min=30,max=480"`
	TableID         string `json:"table_id"         validate:"omitempty,uuid"`
	Occasion        string `json:"occasion"         validate:"omitempty,oneof=birthday anniversary business date family other"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
	Notes           string `json:"notes"            validate:"omitempty,max=500"`
}

// Reschedules reports whether the patch moves the reservation in time or space, or
// changes the party it must seat.
func (u UpdateReservationRequest) Reschedules() bool {
	return u.Date != "" || u.Time != "" || u.Duration != 0 || u.TableID != "" || u.PartySize != 0
}

// Moves reports whether the patch changes the table or the time slot.
func (u UpdateReservationRequest) Moves() bool {
	return u.Date != "" || u.Time != "" || u.Duration != 0 || u.TableID != ""
}

// ApplyTo merges the non-empty fields of the patch into r. date is the parsed Date when set.
func (u UpdateReservationRequest) ApplyTo(r *model.Reservation, date *time.Time) {
	if u.CustomerName != "" {
		r.CustomerName = u.CustomerName
	}

	if u.CustomerPhone != "" {
		r.CustomerPhone = u.CustomerPhone
	}

	if u.CustomerEmail != "" {
		r.CustomerEmail = u.CustomerEmail
	}

	if u.PartySize != 0 {
		r.PartySize = u.PartySize
	}

	if date != nil {
		r.Date = *date
	}

	if u.Time != "" {
		r.Time = u.Time
	}

	if u.Duration != 0 {
		r.Duration = u.Duration
	}

	if u.TableID != "" {
		r.TableID = u.TableID
	}

	if u.Occasion != "" {
		r.Occasion = model.Occasion(u.Occasion)
	}

	if u.SpecialRequests != "" {
		r.SpecialRequests = u.SpecialRequests
	}

	if u.Notes != "" {
		r.Notes = u.Notes
	}
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed seated completed cancelled no-show"`
}

type AvailableTablesRequest struct {
	Date      string `json:"date"       validate:"required,isodate"`
	Time      string `json:"time"       validate:"required,hhmm"`
	Duration  int    `json:"duration"   validate:"omitempty,min=30,max=480"`
	PartySize int    `json:"party_size" validate:"omitempty,min=1,max=20"`
}

type ReservationFilter struct {
	Status  string
	Date    string
	TableID string
}

func (f ReservationFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.And()
	group.AddIf(model.TableName, model.FieldStatus, f.Status).
		AddIf(model.TableName, model.FieldDate, f.Date).
		AddIf(model.TableName, model.FieldTableID, f.TableID)

	return group
}

type ReservationResponse struct {
	ID                string  `json:"id"`
	ReservationNumber string  `json:"reservation_number"`
	CustomerName      string  `json:"customer_name"`
	CustomerPhone     string  `json:"customer_phone"`
	CustomerEmail     string  `json:"customer_email"`
	PartySize         int     `json:"party_size"`
	Date              string  `json:"date"`
	Time              string  `json:"time"`
	EndTime           string  `json:"end_time"`
	Duration          int     `json:"duration"`
	TableID           string  `json:"table_id"`
	Status            string  `json:"status"`
	Occasion          string  `json:"occasion"`
	SpecialRequests   string  `json:"special_requests"`
	Notes             string  `json:"notes"`
	SeatedAt          *string `json:"seated_at"`
	CompletedAt       *string `json:"completed_at"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(reservation model.Reservation) {
	r.ID = reservation.ID
	r.ReservationNumber = reservation.ReservationNumber
	r.CustomerName = reservation.CustomerName
	r.CustomerPhone = reservation.CustomerPhone
	r.CustomerEmail = reservation.CustomerEmail
	r.PartySize = reservation.PartySize
	r.Date = reservation.DateString()
	r.Time = reservation.Time
	r.Duration = reservation.Duration
	r.TableID = reservation.TableID
	r.Status = string(reservation.Status)
	r.Occasion = string(reservation.Occasion)
	r.SpecialRequests = reservation.SpecialRequests
	r.Notes = reservation.Notes
	r.SeatedAt = gDto.FormatOptionalTime(reservation.SeatedAt)
	r.CompletedAt = gDto.FormatOptionalTime(reservation.CompletedAt)
	r.Metadata.FromModel(reservation.Metadata)

	if window, err := reservation.Window(); err == nil {
		r.EndTime = window.EndClock()
	}
}

type GetReservationsResponse struct {
	gDto.Page[ReservationResponse]
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
