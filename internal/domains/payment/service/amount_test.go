package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alojasys/internal/domains/payment/model"
	"alojasys/internal/domains/payment/service"
)

func TestResolveAmount(t *testing.T) {
	cases := []struct {
		name      string
		purpose   string
		requested *float64
		total     float64
		balance   float64
		amount    float64
		isDeposit bool
		wantErr   bool
	}{
		{"booking defaults to the full price", model.PurposeBooking, nil, 300, 300, 300, false, false},
		{"partial booking amount is a deposit", model.PurposeBooking, amountOf(100), 300, 300, 100, true, false},
		{"full requested amount is not a deposit", model.PurposeBooking, amountOf(300), 300, 300, 300, false, false},
		{"amount above the price is rejected", model.PurposeBooking, amountOf(400), 300, 300, 0, false, true},
		{"zero amount is rejected", model.PurposeBooking, amountOf(0), 300, 300, 0, false, true},
		{"negative amount is rejected", model.PurposeBooking, amountOf(-50), 300, 300, 0, false, true},
		{"balance ignores any requested amount", model.PurposeBalance, amountOf(10), 300, 180, 180, false, false},
		{"settled balance has nothing to pay", model.PurposeBalance, nil, 300, 0, 0, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, isDeposit, err := service.ResolveAmount(tc.purpose, tc.requested, tc.total, tc.balance)

			if tc.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.amount, amount)
			assert.Equal(t, tc.isDeposit, isDeposit)
		})
	}
}
