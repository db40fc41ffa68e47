package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"alojasys/infras/otel"
	"alojasys/internal/domains/payment/model"
	"alojasys/internal/domains/payment/model/dto"
	"alojasys/internal/domains/payment/service"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	"alojasys/shared/validator"
	"alojasys/transport/http/response"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPayments)

		routerGroup.Route("/sessions", func(sessionGroup chi.Router) {
			sessionGroup.Post("/", handler.StartSession)
			sessionGroup.Get("/{id}", handler.GetSession)
			sessionGroup.Post("/{id}/amount", handler.SelectAmount)
			sessionGroup.Post("/{id}/method", handler.SelectMethod)
			sessionGroup.Post("/{id}/back", handler.Back)
			sessionGroup.Post("/{id}/submit", handler.Submit)
			sessionGroup.Delete("/{id}", handler.CloseSession)
		})
	})
}

// StartSession opens a payment session for a reservation.
// @Summary Start a payment session
// @Description Open a payment session. Booking sessions start at amount selection only when the deposit policy offers one; balance sessions and deposit-free bookings skip straight to method selection with a fixed amount.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Start Session Request"
// @Success 201 {object} dto.SessionResponse "Payment session"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions [post]
func (handler *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartSession")
	defer scope.End()

	req := dto.StartSessionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	session, err := handler.service.StartSession(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start payment session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment session started successfully")

	response.WithJSON(w, http.StatusCreated, session)
}

// GetSession retrieves a payment session by its ID.
// @Summary Get a payment session
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse "Payment session"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions/{id} [get]
func (handler *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSession")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	session, err := handler.service.GetSession(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment session retrieved successfully")

	response.WithJSON(w, http.StatusOK, session)
}

// SelectAmount picks how much of the total the guest will pay now.
// @Summary Select the payment amount
// @Description Choose the amount for a booking session. Omitting the amount selects the full price, a smaller amount becomes a deposit.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SelectAmountRequest true "Select Amount Request"
// @Success 200 {object} dto.SessionResponse "Payment session"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions/{id}/amount [post]
func (handler *Handler) SelectAmount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SelectAmount")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SelectAmountRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	session, err := handler.service.SelectAmount(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to select payment amount")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment amount selected successfully")

	response.WithJSON(w, http.StatusOK, session)
}

// SelectMethod picks the payment method for the session.
// @Summary Select the payment method
// @Description Choose between card, cash, transfer and pos. Re-selecting after a result resets the previous attempt.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SelectMethodRequest true "Select Method Request"
// @Success 200 {object} dto.SessionResponse "Payment session"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions/{id}/method [post]
func (handler *Handler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SelectMethod")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SelectMethodRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	session, err := handler.service.SelectMethod(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to select payment method")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment method selected successfully")

	response.WithJSON(w, http.StatusOK, session)
}

// Back navigates the session one step back.
// @Summary Go back one step
// @Description Step back through the session. Backing out of a result clears the previous attempt.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse "Payment session"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions/{id}/back [post]
func (handler *Handler) Back(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Back")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	session, err := handler.service.Back(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to navigate payment session back")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment session navigated back successfully")

	response.WithJSON(w, http.StatusOK, session)
}

// Submit executes the payment attempt for the selected method.
// @Summary Submit the payment
// @Description Run the attempt for the selected method: charge the card, register the manual payment or reconcile the latest transfer.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitRequest true "Submit Request"
// @Success 200 {object} dto.SessionResponse "Payment session with the attempt result"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions/{id}/submit [post]
func (handler *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Submit")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SubmitRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	session, err := handler.service.Submit(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment submitted successfully")

	response.WithJSON(w, http.StatusOK, session)
}

// CloseSession discards a payment session and its background work.
// @Summary Close a payment session
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Message "Session closed successfully"
// @Failure 500 {object} response.Error
// @Router /v1/payments/sessions/{id} [delete]
func (handler *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CloseSession")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.CloseSession(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to close payment session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment session closed successfully")

	response.WithMessage(w, http.StatusOK, "Session closed successfully")
}

// GetPayments retrieves payments with optional filters.
// @Summary Get all payments
// @Tags Payment
// @Accept json
// @Produce json
// @Param reservation_id query string false "Filter by reservation"
// @Param method query string false "Filter by method"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.GetPaymentsResponse "List of payments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments [get]
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
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

	if method := r.URL.Query().Get(model.FieldMethod); method != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldMethod,
			Operator: gDto.FilterOperatorEq,
			Value:    method,
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

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}
