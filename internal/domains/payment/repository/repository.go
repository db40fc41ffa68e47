package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"alojasys/infras/otel"
	"alojasys/infras/postgres"
	"alojasys/internal/domains/payment/model"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	"alojasys/shared/logger"
	gRepo "alojasys/shared/repository"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	SumSettled(ctx context.Context, reservationID string) (float64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// SumSettled totals the approved, settled money collected against a
// reservation. It is what the balance check compares to the total price.
func (repo *repositoryImpl) SumSettled(ctx context.Context, reservationID string) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.SumSettled")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = :reservation_id AND %s = :status AND %s = TRUE",
		model.FieldAmount, model.TableName, model.FieldReservationID, model.FieldStatus, model.FieldIsSettled,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"reservation_id": reservationID,
		"status":         model.StatusApproved,
	}

	var total float64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &total, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum settled payments (%s): %w", model.EntityName, err)
	}

	return total, nil
}
