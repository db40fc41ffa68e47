package model

import (
	"time"

	"alojasys/shared/model"
)

const (
	TableName  = "bank_transfers"
	EntityName = "bank_transfer"

	FieldID              = "id"
	FieldReservationID   = "reservation_id"
	FieldAmount          = "amount"
	FieldTransferDate    = "transfer_date"
	FieldCBU             = "cbu"
	FieldBankName        = "bank_name"
	FieldNotes           = "notes"
	FieldReceiptURL      = "receipt_url"
	FieldReceiptFilename = "receipt_filename"
	FieldExtractedAmount = "extracted_amount"
	FieldExtractedCBU    = "extracted_cbu"
	FieldIsAmountValid   = "is_amount_valid"
	FieldIsCBUValid      = "is_cbu_valid"
	FieldStatus          = "status"
	FieldReviewNote      = "review_note"
)

// Transfer record lifecycle. Uploaded receipts move to processing while the
// extractor runs, then either auto-confirm or queue for manual review.
const (
	StatusUploaded      = "uploaded"
	StatusProcessing    = "processing"
	StatusPendingReview = "pending_review"
	StatusConfirmed     = "confirmed"
	StatusRejected      = "rejected"
)

// AmountTolerance is how far the extracted receipt amount may drift from the
// declared one before reconciliation flags it.
const AmountTolerance = 0.01

type BankTransfer struct {
	ID              string    `db:"id"`
	ReservationID   string    `db:"reservation_id"`
	Amount          float64   `db:"amount"`
	TransferDate    time.Time `db:"transfer_date"`
	CBU             string    `db:"cbu"`
	BankName        string    `db:"bank_name"`
	Notes           string    `db:"notes"`
	ReceiptURL      string    `db:"receipt_url"`
	ReceiptFilename string    `db:"receipt_filename"`
	ExtractedAmount *float64  `db:"extracted_amount"`
	ExtractedCBU    *string   `db:"extracted_cbu"`
	IsAmountValid   *bool     `db:"is_amount_valid"`
	IsCBUValid      *bool     `db:"is_cbu_valid"`
	Status          string    `db:"status"`
	ReviewNote      string    `db:"review_note"`
	model.Metadata
}
