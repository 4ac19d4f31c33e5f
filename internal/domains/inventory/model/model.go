package model

import (
	"fmt"
	"math"
	"restopos/shared/failure"
	"restopos/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "inventory_items"
	EntityName = "inventory"

	FieldID            = "id"
	FieldName          = "name"
	FieldCategory      = "category"
	FieldCurrentStock  = "current_stock"
	FieldMinStock      = "min_stock"
	FieldMaxStock      = "max_stock"
	FieldUnit          = "unit"
	FieldCostPerUnit   = "cost_per_unit"
	FieldSupplier      = "supplier"
	FieldExpiryDate    = "expiry_date"
	FieldLastRestocked = "last_restocked"
	FieldLocation      = "location"
	FieldDescription   = "description"
	FieldStockHistory  = "stock_history"

	DefaultLocation = "Main Storage"
)

type Category string

const (
	CategoryMeat       Category = "Meat"
	CategoryDairy      Category = "Dairy"
	CategoryVegetables Category = "Vegetables"
	CategorySeafood    Category = "Seafood"
	CategoryBeverages  Category = "Beverages"
	CategoryPantry     Category = "Pantry"
	CategorySpices     Category = "Spices"
	CategoryOther      Category = "Other"
)

type Action string

const (
	ActionRestock    Action = "restock"
	ActionUsage      Action = "usage"
	ActionWaste      Action = "waste"
	ActionAdjustment Action = "adjustment"
)

func (a Action) Valid() bool {
	switch a {
	case ActionRestock, ActionUsage, ActionWaste, ActionAdjustment:
		return true
	}

	return false
}

type StockStatus string

const (
	StockLow    StockStatus = "low"
	StockNormal StockStatus = "normal"
	StockHigh   StockStatus = "high"
)

type Supplier struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type StockEntry struct {
	Action      Action          `json:"action"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason,omitempty"`
	PerformedBy string          `json:"performed_by"`
	Timestamp   time.Time       `json:"timestamp"`
}

type Item struct {
	ID            string                    `db:"id"`
	Name          string                    `db:"name"`
	Category      Category                  `db:"category"`
	CurrentStock  decimal.Decimal           `db:"current_stock"`
	MinStock      decimal.Decimal           `db:"min_stock"`
	MaxStock      decimal.Decimal           `db:"max_stock"`
	Unit          string                    `db:"unit"`
	CostPerUnit   decimal.Decimal           `db:"cost_per_unit"`
	Supplier      model.JSONB[Supplier]     `db:"supplier"`
	ExpiryDate    *time.Time                `db:"expiry_date"`
	LastRestocked time.Time                 `db:"last_restocked"`
	Location      string                    `db:"location"`
	Description   string                    `db:"description"`
	StockHistory  model.JSONB[[]StockEntry] `db:"stock_history"`
	model.Metadata
}

// CheckLevels rejects a minimum above the maximum.
func CheckLevels(minStock, maxStock decimal.Decimal) error {
	if minStock.GreaterThan(maxStock) {
		return failure.Validation(fmt.Sprintf("minimum stock %s cannot be greater than maximum stock %s", minStock, maxStock), FieldMinStock) // nolint:wrapcheck
	}

	return nil
}

// Adjust applies a stock movement and records it. Adjustment sets the level outright,
// the other actions move it by quantity. The result never drops below zero.
func (i *Item) Adjust(action Action, quantity decimal.Decimal, reason, actor string, now time.Time) error {
	if !action.Valid() {
		return failure.Validation("unknown stock action "+string(action), "action") // nolint:wrapcheck
	}

	if quantity.IsNegative() {
		return failure.Validation("quantity cannot be negative", "quantity") // nolint:wrapcheck
	}

	next := i.CurrentStock

	switch action {
	case ActionRestock:
		next = next.Add(quantity)
		i.LastRestocked = now
	case ActionUsage, ActionWaste:
		next = next.Sub(quantity)
	case ActionAdjustment:
		next = quantity
	}

	i.CurrentStock = decimal.Max(next, decimal.Zero)
	i.StockHistory.Val = append(i.StockHistory.Val, StockEntry{
		Action:      action,
		Quantity:    quantity,
		Reason:      reason,
		PerformedBy: actor,
		Timestamp:   now,
	})

	return nil
}

func (i *Item) StockStatus() StockStatus {
	switch {
	case i.CurrentStock.LessThanOrEqual(i.MinStock):
		return StockLow
	case i.CurrentStock.GreaterThanOrEqual(i.MaxStock):
		return StockHigh
	default:
		return StockNormal
	}
}

func (i *Item) TotalValue() decimal.Decimal {
	return i.CurrentStock.Mul(i.CostPerUnit).Round(2)
}

// DaysUntilExpiry rounds up to whole days; nil when the item does not expire.
func (i *Item) DaysUntilExpiry(now time.Time) *int {
	if i.ExpiryDate == nil {
		return nil
	}

	days := int(math.Ceil(i.ExpiryDate.Sub(now).Hours() / 24))

	return &days
}

// ExpiresWithin reports whether the item expires between now and days from now.
func (i *Item) ExpiresWithin(days int, now time.Time) bool {
	left := i.DaysUntilExpiry(now)

	return left != nil && *left >= 0 && *left <= days
}

// StockFields returns the columns written by a stock movement.
func (i *Item) StockFields() map[string]any {
	fields := i.Metadata.Fields()
	fields[FieldCurrentStock] = i.CurrentStock
	fields[FieldLastRestocked] = i.LastRestocked
	fields[FieldStockHistory] = i.StockHistory

	return fields
}
