package pricing

//go:generate go run go.uber.org/mock/mockgen -source=./client.go -destination=./mocks/client_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"alojasys/config"
	"alojasys/infras/otel"
	"alojasys/shared/constant"
)

// NightRate is one night of an externally computed quote. Consumed read-only
// for amount display; never used for deposit or availability decisions.
type NightRate struct {
	Date          string  `json:"date"`
	BaseRate      float64 `json:"base_rate"`
	ExtraGuestFee float64 `json:"extra_guest_fee"`
	Discount      float64 `json:"discount"`
	Tax           float64 `json:"tax"`
	TotalNight    float64 `json:"total_night"`
}

type Quote struct {
	Nights []NightRate `json:"nights"`
	Total  float64     `json:"total"`
}

// DepositQuote is the policy evaluator's verdict on whether a partial payment
// may be offered, and for how much. Owned by the external evaluator.
type DepositQuote struct {
	Required bool    `json:"required"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
}

// Offerable reports whether the quote actually enables a deposit choice.
// A malformed quote (non-positive or above the total) never offers one.
func (q DepositQuote) Offerable(totalPrice float64) bool {
	return q.Required && q.Amount > 0 && q.Amount <= totalPrice
}

type QuoteRequest struct {
	RoomID   string
	Guests   int
	CheckIn  time.Time
	CheckOut time.Time
}

type Client interface {
	Quote(ctx context.Context, req QuoteRequest) (Quote, error)
	DepositPolicy(ctx context.Context, reservationID string) (DepositQuote, error)
}

type clientImpl struct {
	http *http.Client
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	return &clientImpl{
		http: &http.Client{Timeout: time.Duration(cfg.External.Pricing.TimeoutSeconds) * time.Second},
		cfg:  cfg,
		otel: otl,
	}
}

func (c *clientImpl) Quote(ctx context.Context, req QuoteRequest) (res Quote, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".pricing.Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := url.Values{}
	query.Set(constant.RequestParamRoomID, req.RoomID)
	query.Set(constant.RequestParamGuests, strconv.Itoa(req.Guests))
	query.Set(constant.RequestParamCheckIn, req.CheckIn.Format(constant.DayFormat))
	query.Set(constant.RequestParamCheckOut, req.CheckOut.Format(constant.DayFormat))

	endpoint := fmt.Sprintf("%s/reservations/pricing/quote/?%s", c.cfg.External.Pricing.BaseURL, query.Encode())

	if err = c.get(ctx, endpoint, &res); err != nil {
		log.Error().Err(err).Str("roomID", req.RoomID).Msg("failed to fetch pricing quote")

		return res, fmt.Errorf("failed to fetch pricing quote: %w", err)
	}

	return res, nil
}

func (c *clientImpl) DepositPolicy(ctx context.Context, reservationID string) (res DepositQuote, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".pricing.DepositPolicy")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("reservation_id", reservationID)

	endpoint := fmt.Sprintf("%s/reservations/%s/deposit-policy/", c.cfg.External.Pricing.BaseURL, reservationID)

	if err = c.get(ctx, endpoint, &res); err != nil {
		log.Error().Err(err).Str("reservationID", reservationID).Msg("failed to fetch deposit policy")

		return res, fmt.Errorf("failed to fetch deposit policy: %w", err)
	}

	return res, nil
}

func (c *clientImpl) get(ctx context.Context, endpoint string, result any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("pricing request failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read pricing response: %w", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("pricing engine responded with status %d", response.StatusCode)
	}

	if err = json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to decode pricing response: %w", err)
	}

	return nil
}
