package dto

import (
	"time"

	"github.com/google/uuid"

	"alojasys/internal/domains/transfer/model"
	"alojasys/shared"
	"alojasys/shared/constant"
	gDto "alojasys/shared/dto"
	gModel "alojasys/shared/model"
	"alojasys/shared/timezone"
)

type UploadTransferRequest struct {
	ReservationID string  `json:"reservation_id" validate:"required"`
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	TransferDate  string  `json:"transfer_date"  validate:"required,datetime=2006-01-02"`
	CBU           string  `json:"cbu"            validate:"required,cbu"`
	BankName      string  `json:"bank_name"      validate:"omitempty,max=100"`
	Notes         string  `json:"notes"          validate:"omitempty,max=500"`
	// Receipt is a base64 data URI of the uploaded proof of payment.
	Receipt         string `json:"receipt"          validate:"required,mimetypes=application/pdf image/jpeg image/png,maxfilesize=5"`
	ReceiptFilename string `json:"receipt_filename" validate:"omitempty,max=255"`
}

func (u *UploadTransferRequest) ToModel(user, receiptURL string) (model.BankTransfer, error) {
	transferDate, err := time.Parse(constant.DayFormat, u.TransferDate)
	if err != nil {
		return model.BankTransfer{}, err
	}

	return model.BankTransfer{
		ID:              uuid.NewString(),
		ReservationID:   u.ReservationID,
		Amount:          u.Amount,
		TransferDate:    transferDate,
		CBU:             u.CBU,
		BankName:        u.BankName,
		Notes:           u.Notes,
		ReceiptURL:      receiptURL,
		ReceiptFilename: u.ReceiptFilename,
		Status:          model.StatusUploaded,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type ReviewTransferRequest struct {
	// Reason is mandatory either way: it becomes the audit trail of the
	// manual decision.
	Reason string `json:"reason" validate:"required,max=500"`
}

type TransferResponse struct {
	ID              string   `json:"id"`
	ReservationID   string   `json:"reservation_id"`
	Amount          float64  `json:"amount"`
	TransferDate    string   `json:"transfer_date"`
	CBU             string   `json:"cbu"`
	BankName        string   `json:"bank_name,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	ReceiptURL      string   `json:"receipt_url"`
	ReceiptFilename string   `json:"receipt_filename,omitempty"`
	ExtractedAmount *float64 `json:"extracted_amount,omitempty"`
	ExtractedCBU    *string  `json:"extracted_cbu,omitempty"`
	IsAmountValid   *bool    `json:"is_amount_valid,omitempty"`
	IsCBUValid      *bool    `json:"is_cbu_valid,omitempty"`
	Status          string   `json:"status"`
	ReviewNote      string   `json:"review_note,omitempty"`
	gDto.Metadata
}

func (r *TransferResponse) FromModel(model model.BankTransfer) {
	r.ID = model.ID
	r.ReservationID = model.ReservationID
	r.Amount = model.Amount
	r.TransferDate = model.TransferDate.Format(constant.DayFormat)
	r.CBU = model.CBU
	r.BankName = model.BankName
	r.Notes = model.Notes
	r.ReceiptURL = model.ReceiptURL
	r.ReceiptFilename = model.ReceiptFilename
	r.ExtractedAmount = model.ExtractedAmount
	r.ExtractedCBU = model.ExtractedCBU
	r.IsAmountValid = model.IsAmountValid
	r.IsCBUValid = model.IsCBUValid
	r.Status = model.Status
	r.ReviewNote = model.ReviewNote
	r.Metadata.FromModel(model.Metadata)
}

type GetTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetTransfersResponse) FromModels(models []model.BankTransfer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Transfers = make([]TransferResponse, len(models))
	for i, mod := range models {
		r.Transfers[i].FromModel(mod)
	}
}

// TransferReviewedEvent is what lands on the transfers.reviewed topic.
type TransferReviewedEvent struct {
	TransferID    string  `json:"transfer_id"`
	ReservationID string  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason,omitempty"`
}
