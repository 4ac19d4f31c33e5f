package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	"restopos/internal/domains/menu/model"
	gDto "restopos/shared/dto"
	gRepo "restopos/shared/repository"
)

type Menu interface {
	Insert(ctx context.Context, model model.MenuItem) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.MenuItem, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.MenuItem, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.MenuItem]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Menu {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.MenuItem](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ByIDs selects the menu items referenced by an order.
func ByIDs(ids []string) gDto.FilterGroup {
	return gDto.And(gDto.Filter{
		ArgName:  "menu_item_id",
		Field:    model.FieldID,
		Value:    ids,
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	})
}
