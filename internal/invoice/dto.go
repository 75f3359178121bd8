package invoice

import "github.com/autowerk/garage-management/internal/core/common/validation"

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateInvoiceDTO struct {
	JobCardID  int64 `json:"job_card_id"`
	TaxRateBps int64 `json:"tax_rate_bps"`
}

func (d CreateInvoiceDTO) Validate() error {
	if d.JobCardID <= 0 {
		return ValidationError{Msg: "job_card_id is required"}
	}
	if d.TaxRateBps < 0 || d.TaxRateBps > 10000 {
		return ValidationError{Msg: "tax_rate_bps must be between 0 and 10000"}
	}
	return nil
}

type RecordPaymentDTO struct {
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
}

func (d RecordPaymentDTO) Validate() error {
	if err := validation.ValidatePaymentAmount(d.Amount); err != nil {
		return err
	}
	if !validPaymentMethod(d.Method) {
		return ValidationError{Msg: "method must be one of cash, card, transfer, upi"}
	}
	return nil
}
