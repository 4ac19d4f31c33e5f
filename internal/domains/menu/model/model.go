package model

import (
	"restopos/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "menu_items"
	EntityName = "menu"

	FieldID              = "id"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldPrice           = "price"
	FieldCategory        = "category"
	FieldImage           = "image"
	FieldPreparationTime = "preparation_time"
	FieldAvailable       = "available"

	DefaultPreparationTime = 15
)

type Category string

const (
	CategoryAppetizers Category = "Appetizers"
	CategoryMains      Category = "Mains"
	CategorySalads     Category = "Salads"
	CategoryDesserts   Category = "Desserts"
	CategoryBeverages  Category = "Beverages"
	CategorySpecials   Category = "Specials"
)

// MenuItem is the sellable dish. Orders snapshot its name and price when they are placed.
type MenuItem struct {
	ID              string          `db:"id"`
	Name            string          `db:"name"`
	Description     string          `db:"description"`
	Price           decimal.Decimal `db:"price"`
	Category        Category        `db:"category"`
	Image           string          `db:"image"`
	PreparationTime int             `db:"preparation_time"`
	Available       bool            `db:"available"`
	model.Metadata
}
