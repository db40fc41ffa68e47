package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"alojasys/shared/constant"
	"alojasys/shared/failure"
)

func TestFailureCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"bad request", failure.BadRequestFromString("bad"), http.StatusBadRequest},
		{"not found", failure.NotFound("reservation not found"), http.StatusNotFound},
		{"conflict", failure.Conflict("dates overlap"), http.StatusConflict},
		{"unauthorized", failure.Unauthorized("nope"), http.StatusUnauthorized},
		{"internal", failure.InternalError(errors.New("boom")), http.StatusInternalServerError},
		{"plain error defaults to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
		})
	}
}

func TestFailureReason(t *testing.T) {
	err := failure.ConflictWithReason("selected dates are no longer available", constant.ReasonDateConflict)

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Equal(t, constant.ReasonDateConflict, failure.GetReason(err))
	assert.Equal(t, "selected dates are no longer available", err.Error())
}

func TestFailureReasonSurvivesWrapping(t *testing.T) {
	inner := failure.PaymentRequired("balance due", constant.ReasonPaymentRequired, map[string]any{"balance_due": 500.0})
	wrapped := fmt.Errorf("check-in blocked: %w", inner)

	assert.Equal(t, http.StatusPaymentRequired, failure.GetCode(wrapped))
	assert.Equal(t, constant.ReasonPaymentRequired, failure.GetReason(wrapped))
}

func TestGetReasonEmptyForPlainError(t *testing.T) {
	assert.Equal(t, "", failure.GetReason(errors.New("boom")))
}
