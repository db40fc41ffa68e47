package dto

import (
	"alojasys/internal/domains/payment/model"
	"alojasys/shared"
	gDto "alojasys/shared/dto"
)

type StartSessionRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
	Purpose       string `json:"purpose"        validate:"omitempty,oneof=booking balance"`
}

type SelectAmountRequest struct {
	// Amount left empty means the full reservation price. A partial amount
	// registers as a deposit.
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
}

type SelectMethodRequest struct {
	Method model.Method `json:"method" validate:"required,oneof=card cash transfer pos"`
}

type CardSubmission struct {
	// Token takes precedence when set; raw card fields are only used to
	// tokenize and are never stored.
	Token           string `json:"token"            validate:"omitempty"`
	Number          string `json:"card_number"      validate:"required_without=Token,omitempty,min=13,max=19,numeric"`
	ExpirationMonth int    `json:"expiration_month" validate:"required_without=Token,omitempty,min=1,max=12"`
	ExpirationYear  int    `json:"expiration_year"  validate:"required_without=Token,omitempty,min=2000"`
	SecurityCode    string `json:"security_code"    validate:"required_without=Token,omitempty,min=3,max=4,numeric"`
	HolderName      string `json:"cardholder_name"  validate:"required_without=Token,omitempty,max=100"`
	Identification  string `json:"identification_number" validate:"omitempty,max=20"`
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
	Installments    int    `json:"installments"      validate:"required,min=1"`
}

type POSSubmission struct {
	TerminalID  string `json:"terminal_id"  validate:"required,max=50"`
	BatchNumber string `json:"batch_number" validate:"omitempty,max=50"`
	// IsSettled false records the charge but leaves the reservation alone
	// until the terminal batch is reconciled.
	IsSettled bool `json:"is_settled"`
}

type SubmitRequest struct {
	Card *CardSubmission `json:"card" validate:"omitempty"`
	POS  *POSSubmission  `json:"pos"  validate:"omitempty"`
}

type OutcomeResponse struct {
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Message   string `json:"message,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
}

type SessionResponse struct {
	ID            string           `json:"id"`
	ReservationID string           `json:"reservation_id"`
	Purpose       string           `json:"purpose"`
	Step          string           `json:"step"`
	TotalPrice    float64          `json:"total_price"`
	BalanceDue    float64          `json:"balance_due"`
	DepositAmount *float64         `json:"deposit_amount,omitempty"`
	Amount        *float64         `json:"amount,omitempty"`
	IsDeposit     bool             `json:"is_deposit"`
	Method        model.Method     `json:"method,omitempty"`
	Outcome       *OutcomeResponse `json:"outcome,omitempty"`
}

func (r *SessionResponse) FromSession(session model.Session) {
	r.ID = session.ID
	r.ReservationID = session.ReservationID
	r.Purpose = session.Purpose
	r.Step = session.Step
	r.TotalPrice = session.TotalPrice
	r.BalanceDue = session.BalanceDue
	r.DepositAmount = session.DepositAmount
	r.Amount = session.Amount
	r.IsDeposit = session.IsDeposit
	r.Method = session.Method

	if session.Outcome != nil {
		r.Outcome = &OutcomeResponse{
			Status:    session.Outcome.Status,
			Detail:    session.Outcome.Detail,
			Message:   session.Outcome.Message,
			PaymentID: session.Outcome.PaymentID,
		}
	}
}

type PaymentResponse struct {
	ID            string       `json:"id"`
	ReservationID string       `json:"reservation_id"`
	Method        model.Method `json:"method"`
	Amount        float64      `json:"amount"`
	Status        string       `json:"status"`
	StatusDetail  string       `json:"status_detail"`
	TerminalID    string       `json:"terminal_id,omitempty"`
	BatchNumber   string       `json:"batch_number,omitempty"`
	IsDeposit     bool         `json:"is_deposit"`
	IsSettled     bool         `json:"is_settled"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.ReservationID = model.ReservationID
	r.Method = model.Method
	r.Amount = model.Amount
	r.Status = model.Status
	r.StatusDetail = model.StatusDetail
	r.TerminalID = model.TerminalID
	r.BatchNumber = model.BatchNumber
	r.IsDeposit = model.IsDeposit
	r.IsSettled = model.IsSettled
	r.Metadata.FromModel(model.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}

// PaymentApprovedEvent is what lands on the payments.approved topic.
type PaymentApprovedEvent struct {
	PaymentID     string       `json:"payment_id"`
	ReservationID string       `json:"reservation_id"`
	Method        model.Method `json:"method"`
	Amount        float64      `json:"amount"`
	IsDeposit     bool         `json:"is_deposit"`
}
