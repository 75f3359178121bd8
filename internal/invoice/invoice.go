package invoice

import "time"

const (
	StatusUnpaid  = "unpaid"
	StatusPartial = "partially_paid"
	StatusPaid    = "paid"
)

// Invoice is raised from a completed job card. Amounts are in the garage's
// minor currency unit; AmountPaid never exceeds GrandTotal.
type Invoice struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	GarageID   int64     `json:"garage_id" gorm:"column:garage_id;index;not null"`
	JobCardID  int64     `json:"job_card_id" gorm:"column:job_card_id;uniqueIndex;not null"`
	CustomerID int64     `json:"customer_id" gorm:"column:customer_id;not null"`
	Number     string    `json:"number" gorm:"column:number;not null"`
	Subtotal   int64     `json:"subtotal" gorm:"column:subtotal;not null"`
	TaxRateBps int64     `json:"tax_rate_bps" gorm:"column:tax_rate_bps;default:0"`
	TaxAmount  int64     `json:"tax_amount" gorm:"column:tax_amount;not null"`
	GrandTotal int64     `json:"grand_total" gorm:"column:grand_total;not null"`
	AmountPaid int64     `json:"amount_paid" gorm:"column:amount_paid;default:0"`
	Status     string    `json:"status" gorm:"column:status;default:unpaid"`
	IssuedAt   time.Time `json:"issued_at" gorm:"column:issued_at"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`

	Lines    []InvoiceLine `json:"lines,omitempty" gorm:"foreignKey:InvoiceID"`
	Payments []Payment     `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) Balance() int64 {
	return i.GrandTotal - i.AmountPaid
}

// recalcStatus keeps Status consistent with AmountPaid.
func (i *Invoice) recalcStatus() {
	switch {
	case i.AmountPaid >= i.GrandTotal:
		i.Status = StatusPaid
	case i.AmountPaid > 0:
		i.Status = StatusPartial
	default:
		i.Status = StatusUnpaid
	}
}

type InvoiceLine struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	InvoiceID   int64  `json:"invoice_id" gorm:"column:invoice_id;index;not null"`
	Description string `json:"description" gorm:"column:description;not null"`
	Quantity    int64  `json:"quantity" gorm:"column:quantity;default:1"`
	UnitPrice   int64  `json:"unit_price" gorm:"column:unit_price;not null"`
	Total       int64  `json:"total" gorm:"column:total;not null"`
}

func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodUPI      = "upi"
)

type Payment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	InvoiceID int64     `json:"invoice_id" gorm:"column:invoice_id;index;not null"`
	Amount    int64     `json:"amount" gorm:"column:amount;not null"`
	Method    string    `json:"method" gorm:"column:method;not null"`
	Reference string    `json:"reference" gorm:"column:reference"`
	PaidAt    time.Time `json:"paid_at" gorm:"column:paid_at"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func validPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodUPI:
		return true
	}
	return false
}
