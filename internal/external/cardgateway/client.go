package cardgateway

//go:generate go run go.uber.org/mock/mockgen -source=./client.go -destination=./mocks/client_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"alojasys/config"
	"alojasys/infras/otel"
	"alojasys/shared/constant"
	"alojasys/shared/failure"
)

// Charge statuses as returned by the gateway.
const (
	StatusApproved  = "approved"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
)

// CardDetails are the raw card fields sent to the tokenization endpoint.
// They never touch our persistence layer.
type CardDetails struct {
	Number          string `json:"card_number"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	SecurityCode    string `json:"security_code"`
	HolderName      string `json:"cardholder_name"`
	Identification  string `json:"identification_number"`
}

type ChargeRequest struct {
	ReservationID   string  `json:"reservation_id"`
	Token           string  `json:"token"`
	PaymentMethodID string  `json:"payment_method_id"`
	Installments    int     `json:"installments"`
	Amount          float64 `json:"amount"`
}

type ChargeResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
}

// Preference is the gateway-side charge intent used by the embedded card UI
// and as the handle for confirmation polling.
type Preference struct {
	ID     string  `json:"preference_id"`
	Amount float64 `json:"amount"`
}

type Client interface {
	Tokenize(ctx context.Context, card CardDetails) (token string, err error)
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	CreatePreference(ctx context.Context, reservationID string, amount float64) (Preference, error)
	PreferenceStatus(ctx context.Context, preferenceID string) (ChargeResult, error)
}

type clientImpl struct {
	http *http.Client
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	return &clientImpl{
		http: &http.Client{Timeout: time.Duration(cfg.External.CardGateway.TimeoutSeconds) * time.Second},
		cfg:  cfg,
		otel: otl,
	}
}

func (c *clientImpl) Tokenize(ctx context.Context, card CardDetails) (token string, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".cardgateway.Tokenize")
	defer scope.End()
	defer scope.TraceIfError(err)

	var result struct {
		ID string `json:"id"`
	}

	endpoint := fmt.Sprintf("%s/v1/card_tokens?public_key=%s", c.cfg.External.CardGateway.BaseURL, c.cfg.External.CardGateway.PublicKey)

	if err = c.post(ctx, endpoint, card, &result); err != nil {
		log.Error().Err(err).Msg("failed to tokenize card")

		return constant.Empty, fmt.Errorf("failed to tokenize card: %w", err)
	}

	return result.ID, nil
}

func (c *clientImpl) Charge(ctx context.Context, req ChargeRequest) (res ChargeResult, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".cardgateway.Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("reservation_id", req.ReservationID)

	endpoint := c.cfg.External.CardGateway.BaseURL + "/payments/process-card/"

	if err = c.post(ctx, endpoint, req, &res); err != nil {
		log.Error().Err(err).Str("reservationID", req.ReservationID).Msg("failed to process card charge")

		return res, fmt.Errorf("failed to process card charge: %w", err)
	}

	return res, nil
}

func (c *clientImpl) CreatePreference(ctx context.Context, reservationID string, amount float64) (res Preference, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".cardgateway.CreatePreference")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("reservation_id", reservationID)

	endpoint := c.cfg.External.CardGateway.BaseURL + "/payments/create-preference/"

	payload := map[string]any{
		"reservation_id": reservationID,
		"amount":         amount,
	}

	if err = c.post(ctx, endpoint, payload, &res); err != nil {
		log.Error().Err(err).Str("reservationID", reservationID).Msg("failed to create payment preference")

		return res, fmt.Errorf("failed to create payment preference: %w", err)
	}

	return res, nil
}

// PreferenceStatus reads the current state of a preference-backed charge.
// The confirmation poller calls this once per tick.
func (c *clientImpl) PreferenceStatus(ctx context.Context, preferenceID string) (res ChargeResult, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".cardgateway.PreferenceStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	endpoint := fmt.Sprintf("%s/payments/preference-status/%s/", c.cfg.External.CardGateway.BaseURL, preferenceID)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return res, fmt.Errorf("failed to build request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+c.cfg.External.CardGateway.AccessToken)

	response, err := c.http.Do(request)
	if err != nil {
		return res, fmt.Errorf("gateway request failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return res, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return res, fmt.Errorf("gateway responded with status %d", response.StatusCode)
	}

	if err = json.Unmarshal(raw, &res); err != nil {
		return res, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return res, nil
}

func (c *clientImpl) post(ctx context.Context, endpoint string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+c.cfg.External.CardGateway.AccessToken)

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		var gatewayError struct {
			Message string `json:"message"`
		}

		_ = json.Unmarshal(raw, &gatewayError)

		if gatewayError.Message != "" {
			return failure.BadRequestFromString(gatewayError.Message) //nolint:wrapcheck
		}

		return fmt.Errorf("gateway responded with status %d", response.StatusCode)
	}

	if err = json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return nil
}
