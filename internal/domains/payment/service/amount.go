package service

import (
	"alojasys/internal/domains/payment/model"
	"alojasys/shared/failure"
)

// ResolveAmount is the single place a session's charge amount is decided.
// Booking payments default to the full price; a smaller requested amount
// becomes a deposit. Balance payments are fixed to what is still owed and
// ignore any requested amount.
func ResolveAmount(purpose string, requested *float64, totalPrice, balanceDue float64) (float64, bool, error) {
	if purpose == model.PurposeBalance {
		if balanceDue <= 0 {
			return 0, false, failure.BadRequestFromString("reservation has no outstanding balance") // nolint:wrapcheck
		}

		return balanceDue, false, nil
	}

	if requested == nil {
		return totalPrice, false, nil
	}

	amount := *requested

	if amount <= 0 {
		return 0, false, failure.BadRequestFromString("payment amount must be positive") // nolint:wrapcheck
	}

	if amount > totalPrice {
		return 0, false, failure.BadRequestFromString("payment amount exceeds the reservation price") // nolint:wrapcheck
	}

	return amount, amount < totalPrice, nil
}
