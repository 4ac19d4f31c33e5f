package dto

import (
	"restopos/internal/domains/settings/model"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

type DayHoursRequest struct {
	Open   string `json:"open"   validate:"omitempty,hhmm"`
	Close  string `json:"close"  validate:"omitempty,hhmm"`
	Closed bool   `json:"closed"`
}

type UpdateSettingsRequest struct {
	RestaurantName          string                     `json:"restaurant_name"           validate:"omitempty,max=100"`
	Currency                string                     `json:"currency"                  validate:"omitempty,oneof=USD EUR GBP CAD AUD IDR"`
	TaxRate                 *decimal.Decimal           `json:"tax_rate"                  validate:"omitempty,gte=0,lte=1"`
	OrderNumberPrefix       string                     `json:"order_number_prefix"       validate:"omitempty,alphanum,max=5"`
	ReservationNumberPrefix string                     `json:"reservation_number_prefix" validate:"omitempty,alphanum,max=5"`
	BusinessHours           map[string]DayHoursRequest `json:"business_hours"            validate:"omitempty,dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys"`
}

func (u UpdateSettingsRequest) Empty() bool {
	return u.RestaurantName == "" && u.Currency == "" && u.TaxRate == nil &&
		u.OrderNumberPrefix == "" && u.ReservationNumberPrefix == "" && len(u.BusinessHours) == 0
}

// Check rejects open days that are missing either end of their hours.
func (u UpdateSettingsRequest) Check() error {
	for day, hours := range u.BusinessHours {
		if !hours.Closed && (hours.Open == "" || hours.Close == "") {
			return failure.Validation(day+" needs both open and close times unless it is closed", "business_hours") // nolint:wrapcheck
		}
	}

	return nil
}

// ApplyTo merges the patch into current and returns the columns to write. Business hours
// are merged per day.
func (u UpdateSettingsRequest) ApplyTo(current *model.Settings, actor string, now time.Time) map[string]any {
	current.Touch(actor, now)
	fields := current.Fields()

	if u.RestaurantName != "" {
		current.RestaurantName = u.RestaurantName
		fields[model.FieldRestaurantName] = u.RestaurantName
	}

	if u.Currency != "" {
		current.Currency = u.Currency
		fields[model.FieldCurrency] = u.Currency
	}

	if u.TaxRate != nil {
		current.TaxRate = u.TaxRate.Round(4)
		fields[model.FieldTaxRate] = current.TaxRate
	}

	if u.OrderNumberPrefix != "" {
		current.OrderNumberPrefix = u.OrderNumberPrefix
		fields[model.FieldOrderNumberPrefix] = u.OrderNumberPrefix
	}

	if u.ReservationNumberPrefix != "" {
		current.ReservationNumberPrefix = u.ReservationNumberPrefix
		fields[model.FieldReservationNumberPrefix] = u.ReservationNumberPrefix
	}

	if len(u.BusinessHours) > 0 {
		hours := model.BusinessHours{}
		for day, h := range current.BusinessHours.Val {
			hours[day] = h
		}

		for day, h := range u.BusinessHours {
			hours[day] = model.DayHours{Open: h.Open, Close: h.Close, Closed: h.Closed}
		}

		current.BusinessHours = gModel.NewJSONB(hours)
		fields[model.FieldBusinessHours] = current.BusinessHours
	}

	return fields
}

type SettingsResponse struct {
	RestaurantName          string              `json:"restaurant_name"`
	Currency                string              `json:"currency"`
	TaxRate                 float64             `json:"tax_rate"`
	OrderNumberPrefix       string              `json:"order_number_prefix"`
	ReservationNumberPrefix string              `json:"reservation_number_prefix"`
	BusinessHours           model.BusinessHours `json:"business_hours"`
	gDto.Metadata
}

func (r *SettingsResponse) FromModel(settings model.Settings) {
	r.RestaurantName = settings.RestaurantName
	r.Currency = settings.Currency
	r.TaxRate = settings.TaxRate.InexactFloat64()
	r.OrderNumberPrefix = settings.OrderNumberPrefix
	r.ReservationNumberPrefix = settings.ReservationNumberPrefix
	r.BusinessHours = settings.BusinessHours.Val
	r.Metadata.FromModel(settings.Metadata)
}
