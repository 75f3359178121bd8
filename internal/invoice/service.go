package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/jobcard"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, garageID, id int64) (*Invoice, error)
	GetByJobCard(ctx context.Context, garageID, jobCardID int64) (*Invoice, error)
	List(ctx context.Context, garageID int64, status string, limit, offset int) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	RecordPayment(ctx context.Context, p *Payment) error
	NextNumber(ctx context.Context, garageID int64, year int) (int64, error)
}

// JobSource hands over a job card with its item lines once the work is
// completed. Job cards in any other status are not invoiceable.
type JobSource interface {
	GetCompleted(ctx context.Context, garageID, id int64) (*jobcard.JobCard, error)
}

type Service struct {
	repo   Repository
	jobs   JobSource
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, jobs JobSource, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		jobs:   jobs,
		logger: logger,
		now:    time.Now,
	}
}

// Create raises an invoice from a completed job card, copying its item
// lines and applying the tax rate. One invoice per job card.
func (s *Service) Create(ctx context.Context, garageID int64, dto CreateInvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByJobCard(ctx, garageID, dto.JobCardID); err == nil && existing != nil {
		return nil, internal.NewConflictError("job card is already invoiced", internal.ErrCodeAlreadyInvoiced)
	}

	j, err := s.jobs.GetCompleted(ctx, garageID, dto.JobCardID)
	if err != nil {
		return nil, internal.ErrInvalidJobStatus
	}

	subtotal := j.Total()
	taxAmount := subtotal * dto.TaxRateBps / 10000
	now := s.now()

	seq, err := s.repo.NextNumber(ctx, garageID, now.Year())
	if err != nil {
		s.logger.Error("failed to allocate invoice number", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to allocate invoice number", err)
	}

	inv := &Invoice{
		GarageID:   garageID,
		JobCardID:  j.ID,
		CustomerID: j.CustomerID,
		Number:     fmt.Sprintf("INV-%d-%d-%04d", garageID, now.Year(), seq),
		Subtotal:   subtotal,
		TaxRateBps: dto.TaxRateBps,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal + taxAmount,
		Status:     StatusUnpaid,
		IssuedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, item := range j.Items {
		inv.Lines = append(inv.Lines, InvoiceLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		s.logger.Error("failed to create invoice", "error", err, "job_card_id", dto.JobCardID)
		return nil, internal.NewInternalError("failed to create invoice", err)
	}

	s.logger.Info("invoice issued", "invoice_id", inv.ID, "number", inv.Number, "grand_total", inv.GrandTotal)
	return inv, nil
}

func (s *Service) GetByID(ctx context.Context, garageID, id int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, garageID int64, status string, limit, offset int) ([]*Invoice, error) {
	if status != "" && status != StatusUnpaid && status != StatusPartial && status != StatusPaid {
		return nil, ValidationError{Msg: "unknown status filter"}
	}

	invoices, err := s.repo.List(ctx, garageID, status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list invoices", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to list invoices", err)
	}
	return invoices, nil
}

// RecordPayment applies a payment against the open balance. Payments that
// would overshoot the balance are rejected outright rather than clamped.
func (s *Service) RecordPayment(ctx context.Context, garageID, id int64, dto RecordPaymentDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrInvoiceNotFound
	}
	if dto.Amount > inv.Balance() {
		return nil, internal.ErrOverpayment
	}

	now := s.now()
	payment := &Payment{
		InvoiceID: inv.ID,
		Amount:    dto.Amount,
		Method:    dto.Method,
		Reference: dto.Reference,
		PaidAt:    now,
		CreatedAt: now,
	}
	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		s.logger.Error("failed to record payment", "error", err, "invoice_id", id)
		return nil, internal.NewInternalError("failed to record payment", err)
	}

	inv.AmountPaid += dto.Amount
	inv.recalcStatus()
	inv.UpdatedAt = now
	if err := s.repo.Update(ctx, inv); err != nil {
		s.logger.Error("failed to update invoice after payment", "error", err, "invoice_id", id)
		return nil, internal.NewInternalError("failed to update invoice", err)
	}

	s.logger.Info("payment recorded", "invoice_id", inv.ID, "amount", dto.Amount, "balance", inv.Balance())
	return inv, nil
}
