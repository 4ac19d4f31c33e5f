package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	"restopos/internal/domains/reservation/model"
	gDto "restopos/shared/dto"
	gRepo "restopos/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Reservation interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	GetAllTx(ctx context.Context, tx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	NextVal(ctx context.Context, tx *sqlx.Tx, sequence string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveOn selects the reservations holding a slot on date, optionally on a single table.
func ActiveOn(date any, tableID string) gDto.FilterGroup {
	group := gDto.And(
		gDto.Filter{Field: model.FieldDate, Value: date, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.ActiveStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
	)

	group.AddIf(model.TableName, model.FieldTableID, tableID)

	return group
}
