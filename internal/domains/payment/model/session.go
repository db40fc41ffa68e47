package model

// Orchestration steps of a payment session. Movement is linear with explicit
// back-navigation; a finished session can be reopened from the result step.
const (
	StepAmountSelection = "amount_selection"
	StepMethodSelection = "method_selection"
	StepMethodForm      = "method_form"
	StepResult          = "result"
)

// What a session collects money for. A booking payment may be a deposit or
// the full price and confirms the reservation; a balance payment settles the
// remainder at check-in and never re-confirms anything.
const (
	PurposeBooking = "booking"
	PurposeBalance = "balance"
)

// Outcome is the terminal view of one payment attempt.
type Outcome struct {
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
}

// Session is the Redis-held state of one payment workflow. It survives page
// reloads on the operator side until its TTL runs out or it is closed.
type Session struct {
	ID            string   `json:"id"`
	ReservationID string   `json:"reservation_id"`
	Purpose       string   `json:"purpose"`
	Step          string   `json:"step"`
	TotalPrice    float64  `json:"total_price"`
	BalanceDue    float64  `json:"balance_due"`
	// DepositAmount is the policy-quoted partial amount the amount step may
	// offer. Nil when no deposit applies, in which case the step is skipped.
	DepositAmount *float64 `json:"deposit_amount"`
	Amount        *float64 `json:"amount"`
	IsDeposit     bool     `json:"is_deposit"`
	Method        Method   `json:"method"`
	// GatewayRef is the gateway-side id the confirmation poller watches.
	// Changing method or reopening the session invalidates it.
	GatewayRef string   `json:"gateway_ref"`
	Outcome    *Outcome `json:"outcome"`
}
