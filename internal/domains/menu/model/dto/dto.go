package dto

import (
	"mime/multipart"
	"restopos/internal/domains/menu/model"
	"restopos/shared"
	gDto "restopos/shared/dto"
	gModel "restopos/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateMenuItemRequest struct {
	Name            string                `json:"name"             validate:"required,max=100"`
	Description     string                `json:"description"      validate:"omitempty,max=500"`
	Price           decimal.Decimal       `json:"price"            validate:"gte=0"`
	Category        string                `json:"category"         validate:"required,oneof=Appetizers Mains Salads Desserts Beverages Specials"`
	PreparationTime int                   `json:"preparation_time" validate:"omitempty,min=1,max=240"`
	Available       *bool                 `json:"available"`
	Image           *multipart.FileHeader `json:"-"                validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile       multipart.File        `json:"-"`
}

func (c *CreateMenuItemRequest) ToModel(id, imageURL, actor string, now time.Time) model.MenuItem {
	available := true
	if c.Available != nil {
		available = *c.Available
	}

	prep := c.PreparationTime
	if prep == 0 {
		prep = model.DefaultPreparationTime
	}

	return model.MenuItem{
		ID:              id,
		Name:            c.Name,
		Description:     c.Description,
		Price:           c.Price.Round(2),
		Category:        model.Category(c.Category),
		Image:           imageURL,
		PreparationTime: prep,
		Available:       available,
		Metadata:        gModel.NewMetadata(actor, now),
	}
}

// NewID is split out so the image object can be named after the item before insert.
func NewID() string {
	return uuid.NewString()
}

type UpdateMenuItemRequest struct {
	Name            string           `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Description     string           `db:"description"      json:"description"      validate:"omitempty,max=500"`
	Price           *decimal.Decimal `db:"price"            json:"price"            validate:"omitempty,gte=0"`
	Category        string           `db:"category"         json:"category"         validate:"omitempty,oneof=Appetizers Mains Salads Desserts Beverages Specials"`
	PreparationTime int              `db:"preparation_time" json:"preparation_time" validate:"omitempty,min=1,max=240"`
	Available       *bool            `db:"available"        json:"available"`
}

type ImageRequest struct {
	Image *multipart.FileHeader `validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type MenuFilter struct {
	Category  string
	Available *bool
	Search    string
}

func (f MenuFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.And()
	group.AddIf(model.TableName, model.FieldCategory, f.Category)

	if f.Available != nil {
		group.Add(gDto.Filter{
			Field:    model.FieldAvailable,
			Value:    *f.Available,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if f.Search != "" {
		group.Add(gDto.Filter{
			Field:    model.FieldName,
			Value:    f.Search,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	return group
}

type MenuItemResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	Category        string `json:"category"`
	Image           string `json:"image"`
	PreparationTime int    `json:"preparation_time"`
	Available       bool   `json:"available"`
	gDto.Metadata
}

func (r *MenuItemResponse) FromModel(item model.MenuItem) {
	r.ID = item.ID
	r.Name = item.Name
	r.Description = item.Description
	r.Price = item.Price.StringFixed(2)
	r.Category = string(item.Category)
	r.Image = item.Image
	r.PreparationTime = item.PreparationTime
	r.Available = item.Available
	r.Metadata.FromModel(item.Metadata)
}

type GetMenuItemsResponse struct {
	gDto.Page[MenuItemResponse]
}

func (r *GetMenuItemsResponse) FromModels(models []model.MenuItem, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]MenuItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
