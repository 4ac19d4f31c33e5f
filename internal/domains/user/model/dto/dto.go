package dto

import (
	"restopos/internal/domains/user/model"
	"restopos/shared"
	"restopos/shared/constant"
	gDto "restopos/shared/dto"
	gModel "restopos/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin manager cashier kitchen"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
}

func (r *CreateUserRequest) ToModel(actor, hashedPassword string, now time.Time) model.User {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleCashier
	}

	return model.User{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    strings.ToLower(r.Email),
		Password: hashedPassword,
		Role:     role,
		Status:   model.StatusActive,
		Phone:    r.Phone,
		Metadata: gModel.NewMetadata(actor, now),
	}
}

// UpdateUserRequest edits a staff account. Role and status are reserved for admins.
type UpdateUserRequest struct {
	Name   string `db:"name"   json:"name"   validate:"omitempty,max=100"`
	Phone  string `db:"phone"  json:"phone"  validate:"omitempty,max=20"`
	Role   string `db:"role"   json:"role"   validate:"omitempty,oneof=admin manager cashier kitchen"`
	Status string `db:"status" json:"status" validate:"omitempty,oneof=active inactive"`
}

// Privileged reports whether the request touches admin-only fields.
func (u UpdateUserRequest) Privileged() bool {
	return u.Role != constant.Empty || u.Status != constant.Empty
}

type UserFilter struct {
	Role   string
	Status string
	Search string
}

func (f UserFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.And()
	group.AddIf(model.TableName, model.FieldRole, f.Role).
		AddIf(model.TableName, model.FieldStatus, f.Status)

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
				ArgName:  "search_email",
				Field:    model.FieldEmail,
				Value:    f.Search,
				Operator: gDto.FilterOperatorLike,
				Table:    model.TableName,
			},
		))
	}

	return group
}

type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	Phone     string  `json:"phone,omitempty"`
	LastLogin *string `json:"last_login"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
	r.Role = user.Role
	r.Status = string(user.Status)
	r.Phone = user.Phone
	r.LastLogin = gDto.FormatOptionalTime(user.LastLogin)
	r.Metadata.FromModel(user.Metadata)
}

type GetUsersResponse struct {
	gDto.Page[UserResponse]
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
