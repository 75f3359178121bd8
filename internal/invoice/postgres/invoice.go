package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/invoice"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, garageID, id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByJobCard(ctx context.Context, garageID, jobCardID int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND job_card_id = ?", garageID, jobCardID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, garageID int64, status string, limit, offset int) ([]*invoice.Invoice, error) {
	query := r.db.WithContext(ctx).Where("garage_id = ?", garageID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []*invoice.Invoice
	err := query.
		Order("issued_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithContext(ctx).Omit("Lines", "Payments").Save(inv).Error
}

func (r *InvoiceRepository) RecordPayment(ctx context.Context, p *invoice.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// NextNumber allocates the next per-garage invoice sequence for the year.
func (r *InvoiceRepository) NextNumber(ctx context.Context, garageID int64, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&invoice.Invoice{}).
		Where("garage_id = ? AND issued_at >= ? AND issued_at < ?", garageID, start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}
