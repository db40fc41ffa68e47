package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"alojasys/config"
	"alojasys/infras/kafka"
	"alojasys/infras/otel"
	"alojasys/infras/s3"
	paymentModel "alojasys/internal/domains/payment/model"
	paymentDto "alojasys/internal/domains/payment/model/dto"
	paymentRepo "alojasys/internal/domains/payment/repository"
	reservationModel "alojasys/internal/domains/reservation/model"
	reservationRepo "alojasys/internal/domains/reservation/repository"
	"alojasys/internal/domains/transfer/model"
	"alojasys/internal/domains/transfer/model/dto"
	"alojasys/internal/domains/transfer/repository"
	"alojasys/internal/external/ocr"
	"alojasys/shared"
	"alojasys/shared/base64"
	"alojasys/shared/cache"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	"alojasys/shared/failure"
	gModel "alojasys/shared/model"
	"alojasys/shared/timezone"
)

const (
	cacheGetTransfer    = "transfer:get"
	cacheGetAllTransfer = "transfer:gets"
	cacheCountTransfer  = "transfer:count"
)

var extensionByContentType = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type Transfer interface {
	Upload(ctx context.Context, req dto.UploadTransferRequest) (dto.TransferResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTransfersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TransferResponse, error)
	Confirm(ctx context.Context, req dto.ReviewTransferRequest, id string) error
	Reject(ctx context.Context, req dto.ReviewTransferRequest, id string) error
}

type serviceImpl struct {
	repo            repository.Transfer
	reservationRepo reservationRepo.Reservation
	paymentRepo     paymentRepo.Payment
	ocr             ocr.Client
	cfg             *config.Config
	cache           cache.RedisCache
	kafka           kafka.Client
	otel            otel.Otel
	s3              s3.S3
}

func New(
	repo repository.Transfer,
	reservationRepo reservationRepo.Reservation,
	paymentRepo paymentRepo.Payment,
	ocrClient ocr.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	kafkaClient kafka.Client,
	otl otel.Otel,
	s3 s3.S3,
) Transfer {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		ocr:             ocrClient,
		cfg:             cfg,
		cache:           cache,
		kafka:           kafkaClient,
		otel:            otl,
		s3:              s3,
	}
}

func (s *serviceImpl) Upload(ctx context.Context, req dto.UploadTransferRequest) (res dto.TransferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.getReservation(ctx, req.ReservationID)
	if err != nil {
		return res, err
	}

	if reservation.Status == reservationModel.StatusCancelled {
		return res, failure.Conflict("reservation is cancelled and cannot receive transfers") // nolint:wrapcheck
	}

	transferDate, err := time.Parse(constant.DayFormat, req.TransferDate)
	if err != nil {
		return res, failure.BadRequestFromString("invalid transfer date") // nolint:wrapcheck
	}

	if transferDate.After(timezone.Now()) {
		return res, failure.BadRequestFromString("transfer date cannot be in the future") // nolint:wrapcheck
	}

	receiptURL, err := s.storeReceipt(ctx, req.Receipt)
	if err != nil {
		return res, err
	}

	transfer, err := req.ToModel(user, receiptURL)
	if err != nil {
		return res, failure.BadRequestFromString("invalid transfer date") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, transfer); err != nil {
		log.Error().Err(err).Msg("failed to insert bank transfer")

		return res, fmt.Errorf("failed to insert bank transfer: %w", err)
	}

	transfer, err = s.reconcile(ctx, transfer, user)
	if err != nil {
		return res, err
	}

	if transfer.Status == model.StatusConfirmed {
		if err = s.settle(ctx, transfer, reservation); err != nil {
			return res, err
		}
	}

	s.invalidate(ctx, transfer.ID)

	res.FromModel(transfer)

	return res, nil
}

// reconcile runs the receipt through the extractor and compares what it read
// against the declared amount and CBU. Extraction failure is not an upload
// failure: the record just lands in manual review.
func (s *serviceImpl) reconcile(ctx context.Context, transfer model.BankTransfer, user string) (model.BankTransfer, error) {
	transfer.Status = model.StatusProcessing

	extraction, err := s.ocr.ExtractReceipt(ctx, transfer.ReceiptURL)
	if err != nil {
		log.Error().Err(err).Str("transferID", transfer.ID).Msg("receipt extraction failed, queueing for review")

		transfer.Status = model.StatusPendingReview
		transfer.ReviewNote = "automatic extraction failed"

		return transfer, s.updateTransfer(ctx, transfer, user)
	}

	amountDelta := transfer.Amount - extraction.Amount
	if amountDelta < 0 {
		amountDelta = -amountDelta
	}

	amountValid := extraction.Amount > 0 && amountDelta <= model.AmountTolerance
	cbuValid := extraction.CBU != "" && strings.EqualFold(extraction.CBU, transfer.CBU)

	transfer.ExtractedAmount = &extraction.Amount
	transfer.ExtractedCBU = &extraction.CBU
	transfer.IsAmountValid = &amountValid
	transfer.IsCBUValid = &cbuValid

	if amountValid && cbuValid {
		transfer.Status = model.StatusConfirmed
	} else {
		transfer.Status = model.StatusPendingReview
	}

	return transfer, s.updateTransfer(ctx, transfer, user)
}

func (s *serviceImpl) storeReceipt(ctx context.Context, receipt string) (string, error) {
	fileData, err := base64.Decode(receipt)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode receipt payload")

		return "", failure.BadRequestFromString("receipt is not valid base64") // nolint:wrapcheck
	}

	contentType := base64.GetContentType(receipt)
	fileName := uuid.NewString() + extensionByContentType[contentType]

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, s.cfg.External.S3.ReceiptsDir, fileName, contentType, fileData)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload receipt to S3")

		return "", fmt.Errorf("failed to upload receipt to S3: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTransfersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTransfer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bank transfers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bank transfers")

		return res, fmt.Errorf("failed to count bank transfers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bank transfers")

		return res, fmt.Errorf("failed to get bank transfers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bank transfers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTransfer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bank transfer count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bank transfers")

		return res, fmt.Errorf("failed to count bank transfers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bank transfer count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TransferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTransfer, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bank transfer")

		return res, nil
	}

	transfer, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(transfer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bank transfer to cache")
		}
	}()

	return res, nil
}

// Confirm overrides a pending review in favor of the guest. The reason is
// recorded on the record and the transfer settles as if reconciliation had
// matched.
func (s *serviceImpl) Confirm(ctx context.Context, req dto.ReviewTransferRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	transfer, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if transfer.Status != model.StatusPendingReview {
		return failure.Conflict("only transfers pending review can be confirmed") // nolint:wrapcheck
	}

	reservation, err := s.getReservation(ctx, transfer.ReservationID)
	if err != nil {
		return err
	}

	transfer.Status = model.StatusConfirmed
	transfer.ReviewNote = req.Reason

	if err = s.updateTransfer(ctx, transfer, user); err != nil {
		return err
	}

	if err = s.settle(ctx, transfer, reservation); err != nil {
		return err
	}

	s.publishReviewed(ctx, transfer)
	s.invalidate(ctx, transfer.ID)

	return nil
}

// Reject closes a pending review against the guest. Rejection is final: the
// guest uploads a new receipt instead of amending this one.
func (s *serviceImpl) Reject(ctx context.Context, req dto.ReviewTransferRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	transfer, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if transfer.Status != model.StatusPendingReview {
		return failure.Conflict("only transfers pending review can be rejected") // nolint:wrapcheck
	}

	transfer.Status = model.StatusRejected
	transfer.ReviewNote = req.Reason

	if err = s.updateTransfer(ctx, transfer, user); err != nil {
		return err
	}

	s.publishReviewed(ctx, transfer)
	s.invalidate(ctx, transfer.ID)

	return nil
}

// settle records the confirmed transfer as money in: a settled payment row,
// the reservation confirmation and the approved event.
func (s *serviceImpl) settle(ctx context.Context, transfer model.BankTransfer, reservation reservationModel.Reservation) error {
	payment := paymentModel.Payment{
		ID:            uuid.NewString(),
		ReservationID: transfer.ReservationID,
		Method:        paymentModel.MethodTransfer,
		Amount:        transfer.Amount,
		Status:        paymentModel.StatusApproved,
		IsDeposit:     transfer.Amount < reservation.TotalPrice,
		IsSettled:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}

	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to record transfer payment")

		return fmt.Errorf("failed to record transfer payment: %w", err)
	}

	if err := s.confirmReservation(ctx, transfer.ReservationID); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		event := paymentDto.PaymentApprovedEvent{
			PaymentID:     payment.ID,
			ReservationID: payment.ReservationID,
			Method:        payment.Method,
			Amount:        payment.Amount,
			IsDeposit:     payment.IsDeposit,
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.PaymentApproved, kafka.Message{Key: payment.ReservationID, Value: event}); err != nil {
			log.Error().Err(err).Msg("failed to publish payment approved event")
		}
	}()

	return nil
}

// confirmReservation promotes a pending reservation once money is in. The
// status filter makes it a no-op for reservations already past pending.
func (s *serviceImpl) confirmReservation(ctx context.Context, reservationID string) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: reservationModel.FieldID, Table: reservationModel.TableName, Operator: gDto.FilterOperatorEq, Value: reservationID},
			gDto.Filter{Field: reservationModel.FieldStatus, Table: reservationModel.TableName, Operator: gDto.FilterOperatorEq, Value: reservationModel.StatusPending},
		},
	}

	fields := map[string]any{
		reservationModel.FieldStatus: reservationModel.StatusConfirmed,
		constant.FieldModifiedAt:     timezone.Now(),
	}

	if err := s.reservationRepo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to confirm reservation")

		return fmt.Errorf("failed to confirm reservation: %w", err)
	}

	return nil
}

func (s *serviceImpl) publishReviewed(ctx context.Context, transfer model.BankTransfer) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.TransferReviewedEvent{
			TransferID:    transfer.ID,
			ReservationID: transfer.ReservationID,
			Amount:        transfer.Amount,
			Status:        transfer.Status,
			Reason:        transfer.ReviewNote,
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.TransferReviewed, kafka.Message{Key: transfer.ReservationID, Value: event}); err != nil {
			log.Error().Err(err).Msg("failed to publish transfer reviewed event")
		}
	}()
}

func (s *serviceImpl) updateTransfer(ctx context.Context, transfer model.BankTransfer, user string) error {
	fields := map[string]any{
		model.FieldStatus:        transfer.Status,
		model.FieldReviewNote:    transfer.ReviewNote,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if transfer.ExtractedAmount != nil {
		fields[model.FieldExtractedAmount] = *transfer.ExtractedAmount
		fields[model.FieldExtractedCBU] = *transfer.ExtractedCBU
		fields[model.FieldIsAmountValid] = *transfer.IsAmountValid
		fields[model.FieldIsCBUValid] = *transfer.IsCBUValid
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(transfer.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update bank transfer")

		return fmt.Errorf("failed to update bank transfer: %w", err)
	}

	return nil
}

func (s *serviceImpl) getByID(ctx context.Context, id string) (model.BankTransfer, error) {
	transfer, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bank transfer")

		return transfer, fmt.Errorf("failed to get bank transfer: %w", err)
	}

	if transfer.ID == constant.Empty {
		return transfer, failure.NotFound("bank transfer not found") // nolint:wrapcheck
	}

	return transfer, nil
}

func (s *serviceImpl) getReservation(ctx context.Context, id string) (reservationModel.Reservation, error) {
	reservation, err := s.reservationRepo.Get(ctx, shared.FilterByID(id, reservationModel.FieldID, reservationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTransfer)
		shared.InvalidateCaches(c, s.cache, cacheCountTransfer)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTransfer, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete bank transfer cache")
		}
	}()
}
