package dto

import (
	"restopos/shared/constant"
	"restopos/shared/model"
	"restopos/shared/timezone"
	"time"
)

type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	m.ModifiedAt = timezone.Format(model.ModifiedAt, constant.DateFormat)
	m.CreatedBy = model.CreatedBy
	m.ModifiedBy = model.ModifiedBy
}

// FormatOptionalTime renders a nullable timestamp, nil when unset.
func FormatOptionalTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

// Page is the pagination envelope shared by every list response.
type Page[T any] struct {
	Items     []T `json:"items"`
	TotalPage int `json:"total_page"`
	TotalData int `json:"total_data"`
}
