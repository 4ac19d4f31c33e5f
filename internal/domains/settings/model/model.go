package model

import (
	"restopos/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "settings"
	EntityName = "settings"

	// SingletonID keys the only settings row.
	SingletonID = "default"

	FieldID                      = "id"
	FieldRestaurantName          = "restaurant_name"
	FieldCurrency                = "currency"
	FieldTaxRate                 = "tax_rate"
	FieldOrderNumberPrefix       = "order_number_prefix"
	FieldReservationNumberPrefix = "reservation_number_prefix"
	FieldBusinessHours           = "business_hours"
)

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// BusinessHours is keyed by lower case weekday name.
type BusinessHours map[string]DayHours

// DefaultBusinessHours opens every day from 09:00 to 22:00.
func DefaultBusinessHours() BusinessHours {
	hours := make(BusinessHours, len(Weekdays))
	for _, day := range Weekdays {
		hours[day] = DayHours{Open: "09:00", Close: "22:00"}
	}

	return hours
}

// Settings is the restaurant-wide configuration editable by admins at runtime.
type Settings struct {
	ID                      string                     `db:"id"                        json:"id"`
	RestaurantName          string                     `db:"restaurant_name"           json:"restaurant_name"`
	Currency                string                     `db:"currency"                  json:"currency"`
	TaxRate                 decimal.Decimal            `db:"tax_rate"                  json:"tax_rate"`
	OrderNumberPrefix       string                     `db:"order_number_prefix"       json:"order_number_prefix"`
	ReservationNumberPrefix string                     `db:"reservation_number_prefix" json:"reservation_number_prefix"`
	BusinessHours           model.JSONB[BusinessHours] `db:"business_hours"            json:"business_hours"`
	model.Metadata
}

// Defaults holds the values a fresh installation starts with.
type Defaults struct {
	RestaurantName          string
	Currency                string
	TaxRate                 float64
	OrderNumberPrefix       string
	ReservationNumberPrefix string
}

func New(defaults Defaults, actor string, now time.Time) Settings {
	return Settings{
		ID:                      SingletonID,
		RestaurantName:          defaults.RestaurantName,
		Currency:                defaults.Currency,
		TaxRate:                 decimal.NewFromFloat(defaults.TaxRate),
		OrderNumberPrefix:       defaults.OrderNumberPrefix,
		ReservationNumberPrefix: defaults.ReservationNumberPrefix,
		BusinessHours:           model.NewJSONB(DefaultBusinessHours()),
		Metadata:                model.NewMetadata(actor, now),
	}
}

// Stored reports whether s was loaded from the database.
func (s Settings) Stored() bool {
	return s.ID != ""
}
