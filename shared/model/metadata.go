package model

import (
	"restopos/shared/constant"
	"time"
)

type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// NewMetadata stamps both created and modified fields with the same actor and time.
func NewMetadata(actor string, now time.Time) Metadata {
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  actor,
		ModifiedBy: actor,
	}
}

// Touch records a modification.
func (m *Metadata) Touch(actor string, now time.Time) {
	m.ModifiedAt = now
	m.ModifiedBy = actor
}

// Fields returns the modification columns for a partial update.
func (m Metadata) Fields() map[string]any {
	return map[string]any{
		constant.FieldModifiedAt: m.ModifiedAt,
		constant.FieldModifiedBy: m.ModifiedBy,
	}
}
