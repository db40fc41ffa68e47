package transfer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"alojasys/infras/otel"
	"alojasys/internal/domains/transfer/model"
	"alojasys/internal/domains/transfer/model/dto"
	"alojasys/internal/domains/transfer/service"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	"alojasys/shared/validator"
	"alojasys/transport/http/response"
)

type Handler struct {
	service service.Transfer
	otel    otel.Otel
}

func New(service service.Transfer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/transfers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadTransfer)
		routerGroup.Get("/", handler.GetTransfers)
		routerGroup.Get("/{id}", handler.GetTransferByID)
		routerGroup.Post("/{id}/confirm", handler.ConfirmTransfer)
		routerGroup.Post("/{id}/reject", handler.RejectTransfer)
	})
}

// UploadTransfer registers a bank transfer receipt.
// @Summary Upload a transfer receipt
// @Description Store the receipt, run it through extraction and reconcile it against the declared amount and CBU. A match confirms the transfer, a mismatch queues it for review.
// @Tags Transfer
// @Accept json
// @Produce json
// @Param request body dto.UploadTransferRequest true "Upload Transfer Request"
// @Success 201 {object} dto.TransferResponse "Transfer record"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transfers [post]
func (handler *Handler) UploadTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadTransfer")
	defer scope.End()

	req := dto.UploadTransferRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	transfer, err := handler.service.Upload(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload transfer receipt")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transfer receipt uploaded successfully")

	response.WithJSON(w, http.StatusCreated, transfer)
}

// GetTransfers retrieves transfer records with optional filters.
// @Summary Get all transfers
// @Tags Transfer
// @Accept json
// @Produce json
// @Param reservation_id query string false "Filter by reservation"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.GetTransfersResponse "List of transfers"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transfers [get]
func (handler *Handler) GetTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransfers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if reservationID := r.URL.Query().Get(model.FieldReservationID); reservationID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldReservationID,
			Operator: gDto.FilterOperatorEq,
			Value:    reservationID,
			Table:    model.TableName,
		})
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	transfers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get transfers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transfers retrieved successfully")

	response.WithJSON(w, http.StatusOK, transfers)
}

// GetTransferByID retrieves a transfer record by its ID.
// @Summary Get a transfer by ID
// @Tags Transfer
// @Accept json
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} dto.TransferResponse "Transfer details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transfers/{id} [get]
func (handler *Handler) GetTransferByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransferByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	transfer, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get transfer by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transfer retrieved successfully")

	response.WithJSON(w, http.StatusOK, transfer)
}

// ConfirmTransfer resolves a pending review in favor of the guest.
// @Summary Confirm a transfer under review
// @Description Confirm a transfer that reconciliation queued for review. The reason is recorded and the transfer settles.
// @Tags Transfer
// @Accept json
// @Produce json
// @Param id path string true "Transfer ID"
// @Param request body dto.ReviewTransferRequest true "Review Transfer Request"
// @Success 200 {object} response.Message "Transfer confirmed successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transfers/{id}/confirm [post]
func (handler *Handler) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmTransfer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReviewTransferRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Confirm(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm transfer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transfer confirmed successfully")

	response.WithMessage(w, http.StatusOK, "Transfer confirmed successfully")
}

// RejectTransfer resolves a pending review against the guest.
// @Summary Reject a transfer under review
// @Description Reject a transfer that reconciliation queued for review. Rejection is final and requires a reason.
// @Tags Transfer
// @Accept json
// @Produce json
// @Param id path string true "Transfer ID"
// @Param request body dto.ReviewTransferRequest true "Review Transfer Request"
// @Success 200 {object} response.Message "Transfer rejected successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transfers/{id}/reject [post]
func (handler *Handler) RejectTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectTransfer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReviewTransferRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Reject(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject transfer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transfer rejected successfully")

	response.WithMessage(w, http.StatusOK, "Transfer rejected successfully")
}
