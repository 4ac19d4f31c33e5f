package model_test

import (
	"restopos/internal/domains/notification/model"
	"restopos/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope_VisibleTo(t *testing.T) {
	tests := []struct {
		name      string
		audiences []string
		role      string
		want      bool
	}{
		{name: "broadcast reaches cashier", role: constant.RoleCashier, want: true},
		{name: "kitchen event reaches kitchen", audiences: []string{model.AudienceKitchen}, role: constant.RoleKitchen, want: true},
		{name: "kitchen event skips cashier", audiences: []string{model.AudienceKitchen}, role: constant.RoleCashier, want: false},
		{name: "kitchen event reaches manager", audiences: []string{model.AudienceKitchen}, role: constant.RoleManager, want: true},
		{name: "manager event reaches admin", audiences: []string{model.AudienceManager}, role: constant.RoleAdmin, want: true},
		{name: "manager event skips kitchen", audiences: []string{model.AudienceManager}, role: constant.RoleKitchen, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope := model.Envelope{Event: model.EventOrderCreated, Audiences: tt.audiences}

			assert.Equal(t, tt.want, envelope.VisibleTo(model.GroupsFor(tt.role)))
		})
	}
}
