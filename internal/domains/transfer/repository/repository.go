package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"alojasys/infras/otel"
	"alojasys/infras/postgres"
	"alojasys/internal/domains/transfer/model"
	gDto "alojasys/shared/dto"
	gRepo "alojasys/shared/repository"
)

type Transfer interface {
	Insert(ctx context.Context, model model.BankTransfer) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.BankTransfer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BankTransfer, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.BankTransfer]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Transfer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BankTransfer](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
