package dto

import (
	"restopos/internal/domains/order/model"
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

type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"     validate:"required,min=1,max=99"`
	Notes      string `json:"notes"        validate:"omitempty,max=200"`
}

type DeliveryAddressRequest struct {
	Street       string `json:"street"       validate:"required,max=200"`
	City         string `json:"city"         validate:"required,max=100"`
	ZipCode      string `json:"zip_code"     validate:"omitempty,max=20"`
	Instructions string `json:"instructions" validate:"omitempty,max=300"`
}

func (d *DeliveryAddressRequest) toModel() *model.DeliveryAddress {
	if d == nil {
		return nil
	}

	return &model.DeliveryAddress{
		Street:       d.Street,
		City:         d.City,
		ZipCode:      d.ZipCode,
		Instructions: d.Instructions,
	}
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest      `json:"items"            validate:"required,min=1,dive"`
	CustomerName    string                  `json:"customer_name"    validate:"omitempty,max=100"`
	CustomerPhone   string                  `json:"customer_phone"   validate:"omitempty,max=20"`
	CustomerEmail   string                  `json:"customer_email"   validate:"omitempty,email,max=100"`
	OrderType       string                  `json:"order_type"       validate:"required,oneof=dine-in takeout delivery"`
	TableNumber     string                  `json:"table_number"     validate:"omitempty,max=10"`
	Discount        decimal.Decimal         `json:"discount"         validate:"gte=0"`
	EstimatedTime   int                     `json:"estimated_time"   validate:"omitempty,min=1,max=240"`
	Notes           string                  `json:"notes"            validate:"omitempty,max=500"`
	DeliveryAddress *DeliveryAddressRequest `json:"delivery_address" validate:"omitempty"`
}

// Check enforces the rules that span fields.
func (c *CreateOrderRequest) Check() error {
	if model.Type(c.OrderType) == model.TypeDineIn && c.TableNumber == constant.Empty {
		return failure.Validation("table number is required for dine-in orders", "table_number") // nolint:wrapcheck
	}

	return nil
}

// MenuItemIDs lists the distinct menu items referenced by the request.
func (c *CreateOrderRequest) MenuItemIDs() []string {
	seen := map[string]bool{}
	ids := []string{}

	for _, item := range c.Items {
		if seen[item.MenuItemID] {
			continue
		}

		seen[item.MenuItemID] = true
		ids = append(ids, item.MenuItemID)
	}

	return ids
}

func (c *CreateOrderRequest) ToModel(number string, lines []model.Item, totals model.Totals, estimatedTime int, actor string, now time.Time) model.Order {
	if c.EstimatedTime > 0 {
		estimatedTime = c.EstimatedTime
	}

	order := model.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		Items:           gModel.NewJSONB(lines),
		CustomerName:    c.CustomerName,
		CustomerPhone:   c.CustomerPhone,
		CustomerEmail:   c.CustomerEmail,
		OrderType:       model.Type(c.OrderType),
		TableNumber:     c.TableNumber,
		Status:          model.StatusPending,
		EstimatedTime:   estimatedTime,
		Notes:           c.Notes,
		DeliveryAddress: gModel.NewJSONB(c.DeliveryAddress.toModel()),
		CashierID:       actor,
		Kitchen:         gModel.NewJSONB(model.Kitchen{}),
		StatusHistory:   gModel.NewJSONB([]model.HistoryEntry{}),
		Metadata:        gModel.NewMetadata(actor, now),
	}
	order.ApplyTotals(totals)
	order.Record(model.StatusPending, actor, "Order created", now)

	return order
}

// UpdateOrderRequest patches the non-financial fields of an order.
type UpdateOrderRequest struct {
	CustomerName    string                  `json:"customer_name"    validate:"omitempty,max=100"`
	CustomerPhone   string                  `json:"customer_phone"   validate:"omitempty,max=20"`
	CustomerEmail   string                  `json:"customer_email"   validate:"omitempty,email,max=100"`
	TableNumber     string                  `json:"table_number"     validate:"omitempty,max=10"`
	Notes           string                  `json:"notes"            validate:"omitempty,max=500"`
	DeliveryAddress *DeliveryAddressRequest `json:"delivery_address" validate:"omitempty"`
}

func (u UpdateOrderRequest) Empty() bool {
	return u == UpdateOrderRequest{}
}

func (u UpdateOrderRequest) ApplyTo(o *model.Order) {
	if u.CustomerName != "" {
		o.CustomerName = u.CustomerName
	}

	if u.CustomerPhone != "" {
		o.CustomerPhone = u.CustomerPhone
	}

	if u.CustomerEmail != "" {
		o.CustomerEmail = u.CustomerEmail
	}

	if u.TableNumber != "" {
		o.TableNumber = u.TableNumber
	}

	if u.Notes != "" {
		o.Notes = u.Notes
	}

	if u.DeliveryAddress != nil {
		o.DeliveryAddress = gModel.NewJSONB(u.DeliveryAddress.toModel())
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
	Notes  string `json:"notes"  validate:"omitempty,max=300"`
}

type OrderFilter struct {
	Status      string
	OrderType   string
	TableNumber string
	Date        string
}

func (f OrderFilter) ToFilterGroup() (gDto.FilterGroup, error) {
	group := gDto.And()
	group.AddIf(model.TableName, model.FieldStatus, f.Status).
		AddIf(model.TableName, model.FieldOrderType, f.OrderType).
		AddIf(model.TableName, model.FieldTableNumber, f.TableNumber)

	if f.Date == constant.Empty {
		return group, nil
	}

	day, err := timezone.ParseDate(f.Date)
	if err != nil {
		return group, failure.Validation("date must be YYYY-MM-DD", "date") // nolint:wrapcheck
	}

	group.Add(gDto.Filter{
		ArgName:  "created_from",
		Field:    constant.FieldCreatedAt,
		Value:    day,
		Operator: gDto.FilterOperatorGreaterEq,
		Table:    model.TableName,
	}).Add(gDto.Filter{
		ArgName:  "created_to",
		Field:    constant.FieldCreatedAt,
		Value:    day.AddDate(0, 0, 1),
		Operator: gDto.FilterOperatorLess,
		Table:    model.TableName,
	})

	return group, nil
}

type OrderItemResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
	LineTotal  string `json:"line_total"`
	Notes      string `json:"notes,omitempty"`
}

type KitchenResponse struct {
	AssignedTo  *string `json:"assigned_to"`
	StartedAt   *string `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
}

type HistoryResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UpdatedBy string `json:"updated_by"`
	Notes     string `json:"notes,omitempty"`
}

type OrderResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	Items           []OrderItemResponse    `json:"items"`
	CustomerName    string                 `json:"customer_name"`
	CustomerPhone   string                 `json:"customer_phone"`
	CustomerEmail   string                 `json:"customer_email"`
	OrderType       string                 `json:"order_type"`
	TableNumber     string                 `json:"table_number"`
	Status          string                 `json:"status"`
	Subtotal        string                 `json:"subtotal"`
	Tax             string                 `json:"tax"`
	Discount        string                 `json:"discount"`
	Total           string                 `json:"total"`
	EstimatedTime   int                    `json:"estimated_time"`
	ActualTime      *int                   `json:"actual_time"`
	Notes           string                 `json:"notes"`
	DeliveryAddress *model.DeliveryAddress `json:"delivery_address"`
	CashierID       string                 `json:"cashier_id"`
	Kitchen         KitchenResponse        `json:"kitchen"`
	StatusHistory   []HistoryResponse      `json:"status_history"`
	gDto.Metadata
}

func (r *OrderResponse) FromModel(order model.Order) {
	r.ID = order.ID
	r.OrderNumber = order.OrderNumber
	r.CustomerName = order.CustomerName
	r.CustomerPhone = order.CustomerPhone
	r.CustomerEmail = order.CustomerEmail
	r.OrderType = string(order.OrderType)
	r.TableNumber = order.TableNumber
	r.Status = string(order.Status)
	r.Subtotal = order.Subtotal.StringFixed(2)
	r.Tax = order.Tax.StringFixed(2)
	r.Discount = order.Discount.StringFixed(2)
	r.Total = order.Total.StringFixed(2)
	r.EstimatedTime = order.EstimatedTime
	r.ActualTime = order.ActualTime
	r.Notes = order.Notes
	r.DeliveryAddress = order.DeliveryAddress.Val
	r.CashierID = order.CashierID
	r.Metadata.FromModel(order.Metadata)

	r.Items = make([]OrderItemResponse, len(order.Items.Val))
	for i, item := range order.Items.Val {
		r.Items[i] = OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.Price.StringFixed(2),
			LineTotal:  item.LineTotal().StringFixed(2),
			Notes:      item.Notes,
		}
	}

	kitchen := order.Kitchen.Val
	r.Kitchen = KitchenResponse{
		AssignedTo:  kitchen.AssignedTo,
		StartedAt:   gDto.FormatOptionalTime(kitchen.StartedAt),
		CompletedAt: gDto.FormatOptionalTime(kitchen.CompletedAt),
	}

	r.StatusHistory = make([]HistoryResponse, len(order.StatusHistory.Val))
	for i, entry := range order.StatusHistory.Val {
		r.StatusHistory[i] = HistoryResponse{
			Status:    string(entry.Status),
			Timestamp: timezone.Format(entry.Timestamp, constant.DateFormat),
			UpdatedBy: entry.UpdatedBy,
			Notes:     entry.Notes,
		}
	}
}

type GetOrdersResponse struct {
	gDto.Page[OrderResponse]
}

func (r *GetOrdersResponse) FromModels(models []model.Order, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]OrderResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
