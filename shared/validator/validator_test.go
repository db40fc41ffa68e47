package validator_test

import (
	b64 "encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"alojasys/shared/validator"
)

type transferUploadFixture struct {
	Amount  float64 `json:"amount"       validate:"required,gt=0"`
	Account string  `json:"cbu_iban"     validate:"required,cbu"`
	Receipt string  `json:"receipt_file" validate:"required,mimetypes=application/pdf image/jpeg image/png,maxfilesize=5"`
}

func receiptFixture(contentType string, size int) string {
	payload := b64.StdEncoding.EncodeToString(make([]byte, size))

	return "data:" + contentType + ";base64," + payload
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        transferUploadFixture
		expectError bool
	}{
		{
			name: "valid upload",
			data: transferUploadFixture{
				Amount:  1500.50,
				Account: "2850590940090418135201",
				Receipt: receiptFixture("application/pdf", 2048),
			},
			expectError: false,
		},
		{
			name: "valid iban",
			data: transferUploadFixture{
				Amount:  300,
				Account: "ES9121000418450200051332",
				Receipt: receiptFixture("image/jpeg", 1024),
			},
			expectError: false,
		},
		{
			name: "zero amount",
			data: transferUploadFixture{
				Amount:  0,
				Account: "2850590940090418135201",
				Receipt: receiptFixture("application/pdf", 2048),
			},
			expectError: true,
		},
		{
			name: "short cbu",
			data: transferUploadFixture{
				Amount:  100,
				Account: "12345",
				Receipt: receiptFixture("application/pdf", 2048),
			},
			expectError: true,
		},
		{
			name: "cbu with letters",
			data: transferUploadFixture{
				Amount:  100,
				Account: "28505909400904181352AB",
				Receipt: receiptFixture("application/pdf", 2048),
			},
			expectError: true,
		},
		{
			name: "unsupported mimetype",
			data: transferUploadFixture{
				Amount:  100,
				Account: "2850590940090418135201",
				Receipt: receiptFixture("application/zip", 2048),
			},
			expectError: true,
		},
		{
			name: "oversized receipt",
			data: transferUploadFixture{
				Amount:  100,
				Account: "2850590940090418135201",
				Receipt: receiptFixture("application/pdf", 6*1024*1024),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDecodesBody(t *testing.T) {
	body := strings.NewReader(`{"amount": 800, "cbu_iban": "2850590940090418135201", "receipt_file": "` + receiptFixture("image/png", 512) + `"}`)

	var req transferUploadFixture
	err := validator.Validate(body, &req)

	assert.NoError(t, err)
	assert.Equal(t, 800.0, req.Amount)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	var req transferUploadFixture
	err := validator.Validate(strings.NewReader("{not json"), &req)

	assert.Error(t, err)
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2850590940090418135201", "cbu"))
	assert.Error(t, validator.ValidateVar("nope", "cbu"))
}
