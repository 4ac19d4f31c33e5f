package dto

import (
	"restopos/internal/domains/inventory/model"
	"restopos/shared"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	"restopos/shared/failure"
	gModel "restopos/shared/model"
	"restopos/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SupplierRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Contact string `json:"contact" validate:"omitempty,max=100"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Phone   string `json:"phone"   validate:"omitempty,max=20"`
}

func (s SupplierRequest) toModel() model.Supplier {
	return model.Supplier{
		Name:    s.Name,
		Contact: s.Contact,
		Email:   s.Email,
		Phone:   s.Phone,
	}
}

type CreateItemRequest struct {
	Name         string          `json:"name"          validate:"required,max=100"`
	Category     string          `json:"category"      validate:"required,oneof=Meat Dairy Vegetables Seafood Beverages Pantry Spices Other"`
	CurrentStock decimal.Decimal `json:"current_stock" validate:"gte=0"`
	MinStock     decimal.Decimal `json:"min_stock"     validate:"gte=0"`
	MaxStock     decimal.Decimal `json:"max_stock"     validate:"gte=0"`
	Unit         string          `json:"unit"          validate:"required,oneof=kg lbs pieces liters gallons boxes cans bottles"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit" validate:"gte=0"`
	Supplier     SupplierRequest `json:"supplier"      validate:"required"`
	ExpiryDate   string          `json:"expiry_date"   validate:"omitempty,isodate"`
	Location     string          `json:"location"      validate:"omitempty,max=100"`
	Description  string          `json:"description"   validate:"omitempty,max=500"`
}

// ToModel builds the item with its opening stock recorded as the first restock.
func (c *CreateItemRequest) ToModel(actor string, now time.Time) (model.Item, error) {
	if err := model.CheckLevels(c.MinStock, c.MaxStock); err != nil {
		return model.Item{}, err
	}

	expiry, err := parseExpiry(c.ExpiryDate)
	if err != nil {
		return model.Item{}, err
	}

	location := c.Location
	if location == constant.Empty {
		location = model.DefaultLocation
	}

	return model.Item{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Category:      model.Category(c.Category),
		CurrentStock:  c.CurrentStock,
		MinStock:      c.MinStock,
		MaxStock:      c.MaxStock,
		Unit:          c.Unit,
		CostPerUnit:   c.CostPerUnit,
		Supplier:      gModel.NewJSONB(c.Supplier.toModel()),
		ExpiryDate:    expiry,
		LastRestocked: now,
		Location:      location,
		Description:   c.Description,
		StockHistory: gModel.NewJSONB([]model.StockEntry{{
			Action:      model.ActionRestock,
			Quantity:    c.CurrentStock,
			Reason:      "Initial stock",
			PerformedBy: actor,
			Timestamp:   now,
		}}),
		Metadata: gModel.NewMetadata(actor, now),
	}, nil
}

func parseExpiry(value string) (*time.Time, error) {
	if value == constant.Empty {
		return nil, nil
	}

	day, err := timezone.ParseDate(value)
	if err != nil {
		return nil, failure.Validation("expiry date must be YYYY-MM-DD", "expiry_date") // nolint:wrapcheck
	}

	return &day, nil
}

// UpdateItemRequest edits the catalogue fields. Stock levels move through AdjustStockRequest.
type UpdateItemRequest struct {
	Name        string           `json:"name"          validate:"omitempty,max=100"`
	Category    string           `json:"category"      validate:"omitempty,oneof=Meat Dairy Vegetables Seafood Beverages Pantry Spices Other"`
	MinStock    *decimal.Decimal `json:"min_stock"     validate:"omitempty,gte=0"`
	MaxStock    *decimal.Decimal `json:"max_stock"     validate:"omitempty,gte=0"`
	Unit        string           `json:"unit"          validate:"omitempty,oneof=kg lbs pieces liters gallons boxes cans bottles"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit" validate:"omitempty,gte=0"`
	Supplier    *SupplierRequest `json:"supplier"      validate:"omitempty"`
	ExpiryDate  string           `json:"expiry_date"   validate:"omitempty,isodate"`
	Location    string           `json:"location"      validate:"omitempty,max=100"`
	Description string           `json:"description"   validate:"omitempty,max=500"`
}

func (u UpdateItemRequest) Empty() bool {
	return u == UpdateItemRequest{}
}

// ApplyTo merges the request into item and returns the columns that changed.
// The merged minimum and maximum are checked together.
func (u UpdateItemRequest) ApplyTo(item *model.Item) (map[string]any, error) {
	fields := map[string]any{}

	set := func(field string, value any) {
		fields[field] = value
	}

	if u.Name != constant.Empty {
		item.Name = u.Name
		set(model.FieldName, item.Name)
	}

	if u.Category != constant.Empty {
		item.Category = model.Category(u.Category)
		set(model.FieldCategory, item.Category)
	}

	if u.MinStock != nil {
		item.MinStock = *u.MinStock
		set(model.FieldMinStock, item.MinStock)
	}

	if u.MaxStock != nil {
		item.MaxStock = *u.MaxStock
		set(model.FieldMaxStock, item.MaxStock)
	}

	if err := model.CheckLevels(item.MinStock, item.MaxStock); err != nil {
		return nil, err
	}

	if u.Unit != constant.Empty {
		item.Unit = u.Unit
		set(model.FieldUnit, item.Unit)
	}

	if u.CostPerUnit != nil {
		item.CostPerUnit = *u.CostPerUnit
		set(model.FieldCostPerUnit, item.CostPerUnit)
	}

	if u.Supplier != nil {
		item.Supplier = gModel.NewJSONB(u.Supplier.toModel())
		set(model.FieldSupplier, item.Supplier)
	}

	if u.ExpiryDate != constant.Empty {
		expiry, err := parseExpiry(u.ExpiryDate)
		if err != nil {
			return nil, err
		}

		item.ExpiryDate = expiry
		set(model.FieldExpiryDate, item.ExpiryDate)
	}

	if u.Location != constant.Empty {
		item.Location = u.Location
		set(model.FieldLocation, item.Location)
	}

	if u.Description != constant.Empty {
		item.Description = u.Description
		set(model.FieldDescription, item.Description)
	}

	return fields, nil
}

type AdjustStockRequest struct {
	Action   string          `json:"action"   validate:"required,oneof=restock usage waste adjustment"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
	Reason   string          `json:"reason"   validate:"omitempty,max=200"`
}

type ItemFilter struct {
	Category string
	LowStock bool
	Search   string
}

func (f ItemFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.And()
	group.AddIf(model.TableName, model.FieldCategory, f.Category)

	if f.LowStock {
		group.Add(LowStockFilter())
	}

	if f.Search != constant.Empty {
		group.Add(gDto.Or(
			gDto.Filter{
				ArgName:  "search_name",
				Field:    model.FieldName,
				Value:    f.Search,
				Operator: gDto.FilterOperatorLike,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "search_description",
				Field:    model.FieldDescription,
				Value:    f.Search,
				Operator: gDto.FilterOperatorLike,
				Table:    model.TableName,
			},
		))
	}

	return group
}

// LowStockFilter compares two columns of the same row, so it is written as plain SQL.
func LowStockFilter() gDto.Filter {
	return gDto.Filter{
		Operator: gDto.FilterPlainQuery,
		Value:    model.TableName + "." + model.FieldCurrentStock + " <= " + model.TableName + "." + model.FieldMinStock,
	}
}

// ExpiryWindow selects items whose expiry date falls within days of now. A day of slack
// on the lower bound keeps items expiring later today.
func ExpiryWindow(days int, now time.Time) gDto.FilterGroup {
	return gDto.And(
		gDto.Filter{
			ArgName:  "expiry_from",
			Field:    model.FieldExpiryDate,
			Value:    now.AddDate(0, 0, -1),
			Operator: gDto.FilterOperatorGreater,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "expiry_to",
			Field:    model.FieldExpiryDate,
			Value:    now.AddDate(0, 0, days),
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
		},
	)
}

type SupplierResponse struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type StockEntryResponse struct {
	Action      string  `json:"action"`
	Quantity    float64 `json:"quantity"`
	Reason      string  `json:"reason,omitempty"`
	PerformedBy string  `json:"performed_by"`
	Timestamp   string  `json:"timestamp"`
}

type ItemResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Category        string               `json:"category"`
	CurrentStock    float64              `json:"current_stock"`
	MinStock        float64              `json:"min_stock"`
	MaxStock        float64              `json:"max_stock"`
	Unit            string               `json:"unit"`
	CostPerUnit     string               `json:"cost_per_unit"`
	Supplier        SupplierResponse     `json:"supplier"`
	ExpiryDate      *string              `json:"expiry_date"`
	LastRestocked   string               `json:"last_restocked"`
	Location        string               `json:"location"`
	Description     string               `json:"description"`
	StockStatus     string               `json:"stock_status"`
	TotalValue      string               `json:"total_value"`
	DaysUntilExpiry *int                 `json:"days_until_expiry"`
	StockHistory    []StockEntryResponse `json:"stock_history"`
	gDto.Metadata
}

func (r *ItemResponse) FromModel(item model.Item, now time.Time) {
	r.ID = item.ID
	r.Name = item.Name
	r.Category = string(item.Category)
	r.CurrentStock = item.CurrentStock.InexactFloat64()
	r.MinStock = item.MinStock.InexactFloat64()
	r.MaxStock = item.MaxStock.InexactFloat64()
	r.Unit = item.Unit
	r.CostPerUnit = item.CostPerUnit.StringFixed(2)
	r.Supplier = SupplierResponse(item.Supplier.Val)
	r.LastRestocked = timezone.Format(item.LastRestocked, constant.DateFormat)
	r.Location = item.Location
	r.Description = item.Description
	r.StockStatus = string(item.StockStatus())
	r.TotalValue = item.TotalValue().StringFixed(2)
	r.DaysUntilExpiry = item.DaysUntilExpiry(now)
	r.Metadata.FromModel(item.Metadata)

	if item.ExpiryDate != nil {
		expiry := timezone.Format(*item.ExpiryDate, constant.DateOnlyFormat)
		r.ExpiryDate = &expiry
	}

	r.StockHistory = make([]StockEntryResponse, len(item.StockHistory.Val))
	for i, entry := range item.StockHistory.Val {
		r.StockHistory[i] = StockEntryResponse{
			Action:      string(entry.Action),
			Quantity:    entry.Quantity.InexactFloat64(),
			Reason:      entry.Reason,
			PerformedBy: entry.PerformedBy,
			Timestamp:   timezone.Format(entry.Timestamp, constant.DateFormat),
		}
	}
}

// FromModels converts a list of items into responses.
func FromModels(models []model.Item, now time.Time) []ItemResponse {
	res := make([]ItemResponse, len(models))
	for i, item := range models {
		res[i].FromModel(item, now)
	}

	return res
}

type GetItemsResponse struct {
	gDto.Page[ItemResponse]
}

func (r *GetItemsResponse) FromModels(models []model.Item, totalData, limit int, now time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Items = FromModels(models, now)
}
