package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"restopos/infras/otel"
	"restopos/infras/postgres"
	"restopos/internal/domains/settings/model"
	gDto "restopos/shared/dto"
	gRepo "restopos/shared/repository"
)

type Settings interface {
	Insert(ctx context.Context, model model.Settings) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Settings, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Settings]
}

func New(db *postgres.Connection, otel otel.Otel) Settings {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Settings](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
