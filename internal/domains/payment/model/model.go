package model

import (
	"alojasys/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID               = "id"
	FieldReservationID    = "reservation_id"
	FieldMethod           = "method"
	FieldAmount           = "amount"
	FieldStatus           = "status"
	FieldStatusDetail     = "status_detail"
	FieldGatewayPaymentID = "gateway_payment_id"
	FieldTerminalID       = "terminal_id"
	FieldBatchNumber      = "batch_number"
	FieldIsDeposit        = "is_deposit"
	FieldIsSettled        = "is_settled"
)

// Method is how a payment was taken. The set is closed: everything that
// dispatches on it must handle all four values.
type Method string

const (
	MethodCard     Method = "card"
	MethodCash     Method = "cash"
	MethodTransfer Method = "transfer"
	MethodPOS      Method = "pos"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodCash, MethodTransfer, MethodPOS:
		return true
	default:
		return false
	}
}

const (
	StatusApproved  = "approved"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
	// StatusError marks an attempt that never reached a gateway verdict:
	// tokenization or the charge call itself failed.
	StatusError = "error"
)

type Payment struct {
	ID               string  `db:"id"`
	ReservationID    string  `db:"reservation_id"`
	Method           Method  `db:"method"`
	Amount           float64 `db:"amount"`
	Status           string  `db:"status"`
	StatusDetail     string  `db:"status_detail"`
	GatewayPaymentID string  `db:"gateway_payment_id"`
	TerminalID       string  `db:"terminal_id"`
	BatchNumber      string  `db:"batch_number"`
	IsDeposit        bool    `db:"is_deposit"`
	IsSettled        bool    `db:"is_settled"`
	model.Metadata
}
