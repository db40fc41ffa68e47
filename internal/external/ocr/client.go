package ocr

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
)

// Extraction is what the receipt extractor could read off an uploaded
// transfer receipt. Zero values mean the field could not be extracted.
type Extraction struct {
	Amount float64 `json:"amount"`
	CBU    string  `json:"cbu"`
}

type Client interface {
	ExtractReceipt(ctx context.Context, receiptURL string) (Extraction, error)
}

type clientImpl struct {
	http *http.Client
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	return &clientImpl{
		http: &http.Client{Timeout: time.Duration(cfg.External.OCR.TimeoutSeconds) * time.Second},
		cfg:  cfg,
		otel: otl,
	}
}

func (c *clientImpl) ExtractReceipt(ctx context.Context, receiptURL string) (res Extraction, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".ocr.ExtractReceipt")
	defer scope.End()
	defer scope.TraceIfError(err)

	payload, err := json.Marshal(map[string]string{"receipt_url": receiptURL})
	if err != nil {
		return res, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	endpoint := c.cfg.External.OCR.BaseURL + "/receipts/extract/"

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return res, fmt.Errorf("failed to build extraction request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	response, err := c.http.Do(request)
	if err != nil {
		log.Error().Err(err).Msg("receipt extraction request failed")

		return res, fmt.Errorf("receipt extraction request failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return res, fmt.Errorf("failed to read extraction response: %w", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return res, fmt.Errorf("receipt extractor responded with status %d", response.StatusCode)
	}

	if err = json.Unmarshal(raw, &res); err != nil {
		return res, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	return res, nil
}
