package model

import (
	"fmt"
	"restopos/shared/constant"
	"restopos/shared/failure"
	"restopos/shared/model"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName      = "orders"
	EntityName     = "order"
	NumberSequence = "order_number_seq"

	FieldID              = "id"
	FieldOrderNumber     = "order_number"
	FieldItems           = "items"
	FieldCustomerName    = "customer_name"
	FieldCustomerPhone   = "customer_phone"
	FieldCustomerEmail   = "customer_email"
	FieldOrderType       = "order_type"
	FieldTableNumber     = "table_number"
	FieldStatus          = "status"
	FieldSubtotal        = "subtotal"
	FieldTax             = "tax"
	FieldDiscount        = "discount"
	FieldTotal           = "total"
	FieldEstimatedTime   = "estimated_time"
	FieldActualTime      = "actual_time"
	FieldNotes           = "notes"
	FieldDeliveryAddress = "delivery_address"
	FieldCashierID       = "cashier_id"
	FieldKitchen         = "kitchen"
	FieldStatusHistory   = "status_history"

	moneyPlaces = 2
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// KitchenStatuses are the orders shown on the kitchen display, oldest first.
var KitchenStatuses = []string{string(StatusPending), string(StatusConfirmed), string(StatusPreparing)}

// ActiveStatuses are the orders the kitchen may list.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed), string(StatusPreparing), string(StatusReady)}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCompleted, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
}

// roleTargets limits the statuses each role may set. Roles missing from the map may
// set any status.
var roleTargets = map[string][]Status{
	constant.RoleCashier: {StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled},
	constant.RoleKitchen: {StatusConfirmed, StatusPreparing, StatusReady},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]

	return ok || s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether the order state machine allows from -> to.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// RoleAllows reports whether role may move an order into target.
func RoleAllows(role string, target Status) bool {
	switch role {
	case constant.RoleAdmin, constant.RoleManager:
		return true
	}

	allowed, ok := roleTargets[role]

	return ok && slices.Contains(allowed, target)
}

type Type string

const (
	TypeDineIn   Type = "dine-in"
	TypeTakeout  Type = "takeout"
	TypeDelivery Type = "delivery"
)

// Item is an order line. Name and Price are copied from the menu when the order is placed.
type Item struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Notes      string          `json:"notes,omitempty"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Kitchen struct {
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by"`
	Notes     string    `json:"notes,omitempty"`
}

type DeliveryAddress struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Instructions string `json:"instructions,omitempty"`
}

// Totals are the money fields of an order, each rounded to cents.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals prices items at taxRate. The discount may not exceed subtotal plus tax.
func ComputeTotals(items []Item, taxRate, discount decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	totals := Totals{
		Subtotal: subtotal.Round(moneyPlaces),
		Discount: discount.Round(moneyPlaces),
	}
	totals.Tax = totals.Subtotal.Mul(taxRate).Round(moneyPlaces)

	gross := totals.Subtotal.Add(totals.Tax)

	if totals.Discount.IsNegative() || totals.Discount.GreaterThan(gross) {
		return Totals{}, failure.Validation("discount must be between 0 and "+gross.StringFixed(moneyPlaces), "discount") // nolint:wrapcheck
	}

	totals.Total = gross.Sub(totals.Discount)

	return totals, nil
}

type Order struct {
	ID              string                        `db:"id"`
	OrderNumber     string                        `db:"order_number"`
	Items           model.JSONB[[]Item]           `db:"items"`
	CustomerName    string                        `db:"customer_name"`
	CustomerPhone   string                        `db:"customer_phone"`
	CustomerEmail   string                        `db:"customer_email"`
	OrderType       Type                          `db:"order_type"`
	TableNumber     string                        `db:"table_number"`
	Status          Status                        `db:"status"`
	Subtotal        decimal.Decimal               `db:"subtotal"`
	Tax             decimal.Decimal               `db:"tax"`
	Discount        decimal.Decimal               `db:"discount"`
	Total           decimal.Decimal               `db:"total"`
	EstimatedTime   int                           `db:"estimated_time"`
	ActualTime      *int                          `db:"actual_time"`
	Notes           string                        `db:"notes"`
	DeliveryAddress model.JSONB[*DeliveryAddress] `db:"delivery_address"`
	CashierID       string                        `db:"cashier_id"`
	Kitchen         model.JSONB[Kitchen]          `db:"kitchen"`
	StatusHistory   model.JSONB[[]HistoryEntry]   `db:"status_history"`
	model.Metadata
}

// FormatNumber renders ORD-<unix millis>-<4-digit sequence>.
func FormatNumber(prefix string, now time.Time, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, now.UnixMilli(), seq%10000)
}

func (o *Order) ApplyTotals(totals Totals) {
	o.Subtotal = totals.Subtotal
	o.Tax = totals.Tax
	o.Discount = totals.Discount
	o.Total = totals.Total
}

// Balanced reports whether total still equals subtotal + tax - discount.
func (o *Order) Balanced() bool {
	return o.Total.Equal(o.Subtotal.Add(o.Tax).Sub(o.Discount))
}

// Record appends a status history entry.
func (o *Order) Record(status Status, actor, notes string, now time.Time) {
	o.StatusHistory.Val = append(o.StatusHistory.Val, HistoryEntry{
		Status:    status,
		Timestamp: now,
		UpdatedBy: actor,
		Notes:     notes,
	})
}

// Transition moves the order to target on behalf of actor. The role filter runs before the state graph.
func (o *Order) Transition(target Status, actor model.Actor, notes string, now time.Time) error {
	if !RoleAllows(actor.Role, target) {
		return failure.Forbidden(fmt.Sprintf("role %s cannot set order status to %s", actor.Role, target), map[string]any{
			"role":   actor.Role,
			"status": target,
		}) // nolint:wrapcheck
	}

	if !CanTransition(o.Status, target) {
		return failure.InvalidState(fmt.Sprintf("order %s cannot move from %s to %s", o.OrderNumber, o.Status, target), map[string]any{
			"order_id": o.ID,
			"status":   o.Status,
			"target":   target,
		}) // nolint:wrapcheck
	}

	o.Status = target
	o.Record(target, actor.ID, notes, now)

	kitchen := &o.Kitchen.Val

	switch target {
	case StatusPreparing:
		if kitchen.StartedAt == nil {
			kitchen.StartedAt = &now

			if actor.Role == constant.RoleKitchen {
				assignee := actor.ID
				kitchen.AssignedTo = &assignee
			}
		}
	case StatusReady:
		if kitchen.CompletedAt == nil {
			kitchen.CompletedAt = &now

			minutes := int(now.Sub(o.CreatedAt).Minutes())
			o.ActualTime = &minutes
		}
	}

	return nil
}

// Editable orders accept changes to customer details, table and notes.
func (o *Order) Editable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

func (o *Order) Deletable() bool {
	return o.Status == StatusPending || o.Status == StatusCancelled
}

// Closed orders no longer hold their table.
func (o *Order) Closed() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// StateFields returns the columns written by status transitions.
func (o *Order) StateFields() map[string]any {
	fields := o.Metadata.Fields()
	fields[FieldStatus] = o.Status
	fields[FieldKitchen] = o.Kitchen
	fields[FieldStatusHistory] = o.StatusHistory
	fields[FieldActualTime] = o.ActualTime

	return fields
}

// DetailFields returns the non-financial columns an edit may touch.
func (o *Order) DetailFields() map[string]any {
	fields := o.Metadata.Fields()
	fields[FieldCustomerName] = o.CustomerName
	fields[FieldCustomerPhone] = o.CustomerPhone
	fields[FieldCustomerEmail] = o.CustomerEmail
	fields[FieldTableNumber] = o.TableNumber
	fields[FieldNotes] = o.Notes
	fields[FieldDeliveryAddress] = o.DeliveryAddress

	return fields
}
