package model

import (
	"restopos/shared/constant"
	gModel "restopos/shared/model"
	"slices"
	"time"
)

const (
	EventOrderCreated       = "order:created"
	EventOrderStatusUpdated = "order:status_updated"
	EventOrderUpdated       = "order:updated"
	EventOrderDeleted       = "order:deleted"
	EventTableOccupied      = "table:occupied"
	EventTableFreed         = "table:freed"
	EventTableUpdated       = "table:updated"
	EventReservationCreated = "reservation:created"
	EventReservationUpdated = "reservation:updated"
	EventInventoryLowStock  = "inventory:low_stock_alert"
	EventInventoryUpdated   = "inventory:updated"
	EventMenuItemUpdated    = "menu:updated"
	EventSettingsUpdated    = "settings:updated"
	EventStreamConnected    = "stream:connected"
)

// Audience groups. Every role also joins the group named after itself.
const (
	AudienceKitchen = "kitchen"
	AudienceCashier = "cashier"
	AudienceManager = "manager"
)

// Envelope is the payload delivered to every sink.
type Envelope struct {
	Event     string       `json:"event"`
	Data      any          `json:"data"`
	Actor     gModel.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Audiences []string     `json:"audiences,omitempty"`
}

// VisibleTo reports whether a subscriber in groups should receive the envelope.
// An envelope without audiences is delivered to everyone.
func (e Envelope) VisibleTo(groups []string) bool {
	if len(e.Audiences) == 0 {
		return true
	}

	for _, audience := range e.Audiences {
		if slices.Contains(groups, audience) {
			return true
		}
	}

	return false
}

// GroupsFor lists the audience groups a role joins when it connects.
func GroupsFor(role string) []string {
	switch role {
	case constant.RoleAdmin:
		return []string{constant.RoleAdmin, AudienceManager, AudienceKitchen, AudienceCashier}
	case constant.RoleManager:
		return []string{AudienceManager, AudienceKitchen, AudienceCashier}
	case constant.RoleKitchen:
		return []string{AudienceKitchen}
	case constant.RoleCashier:
		return []string{AudienceCashier}
	default:
		return []string{role}
	}
}
