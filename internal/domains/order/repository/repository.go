package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	"restopos/internal/domains/order/model"
	gDto "restopos/shared/dto"
	gRepo "restopos/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Order interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Order) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Order, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (model.Order, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Order, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	NextVal(ctx context.Context, tx *sqlx.Tx, sequence string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Order]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Order {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Order](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InStatuses narrows a filter to orders in one of statuses.
func InStatuses(group gDto.FilterGroup, statuses []string) gDto.FilterGroup {
	group.Add(gDto.Filter{
		ArgName:  "status_in",
		Field:    model.FieldStatus,
		Value:    statuses,
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	})

	return group
}
