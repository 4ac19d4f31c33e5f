package model

import (
	"restopos/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldStatus    = "status"
	FieldPhone     = "phone"
	FieldLastLogin = "last_login"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Toggle flips between active and inactive.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}

	return StatusActive
}

// User is a staff account. Role drives every permission check in the POS.
type User struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	Status    Status     `db:"status"`
	Phone     string     `db:"phone"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

func (u *User) Active() bool {
	return u.Status == StatusActive
}
