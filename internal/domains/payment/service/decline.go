package service

// declinePhrases maps gateway status details to the wording shown at the
// front desk. Codes without an entry pass through verbatim so a new gateway
// code is never silently swallowed.
var declinePhrases = map[string]string{
	"accredited":                            "Payment approved.",
	"pending_contingency":                   "The payment is being processed, this may take a moment.",
	"pending_review_manual":                 "The payment is under review by the card issuer.",
	"cc_rejected_bad_filled_card_number":    "Check the card number.",
	"cc_rejected_bad_filled_date":           "Check the expiration date.",
	"cc_rejected_bad_filled_security_code":  "Check the security code.",
	"cc_rejected_bad_filled_other":          "Check the card details.",
	"cc_rejected_blacklist":                 "The card was declined. Try another card.",
	"cc_rejected_call_for_authorize":        "The card issuer asks to authorize the payment by phone.",
	"cc_rejected_card_disabled":             "The card is disabled. The issuer must activate it first.",
	"cc_rejected_card_error":                "The payment could not be processed. Try again.",
	"cc_rejected_duplicated_payment":        "A payment for the same amount was just made. Use another card if this one is intentional.",
	"cc_rejected_high_risk":                 "The payment was declined. Try another payment method.",
	"cc_rejected_insufficient_amount":       "The card has insufficient funds.",
	"cc_rejected_invalid_installments":      "The card does not support that number of installments.",
	"cc_rejected_max_attempts":              "Attempt limit reached for this card. Try another card.",
	"cc_rejected_other_reason":              "The card issuer declined the payment.",
}

func declinePhrase(statusDetail string) string {
	if phrase, ok := declinePhrases[statusDetail]; ok {
		return phrase
	}

	return statusDetail
}
