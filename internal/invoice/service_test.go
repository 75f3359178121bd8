package invoice_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/invoice"
	"github.com/autowerk/garage-management/internal/jobcard"
)

func TestInvoiceService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Invoice Service Suite")
}

type mockRepository struct {
	invoices map[int64]*invoice.Invoice
	payments []invoice.Payment
	nextID   int64
	nextSeq  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{invoices: make(map[int64]*invoice.Invoice), nextID: 1, nextSeq: 1}
}

func (m *mockRepository) Create(_ context.Context, inv *invoice.Invoice) error {
	inv.ID = m.nextID
	m.nextID++
	copied := *inv
	m.invoices[inv.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, garageID, id int64) (*invoice.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.GarageID != garageID {
		return nil, errors.New("record not found")
	}
	copied := *inv
	return &copied, nil
}

func (m *mockRepository) GetByJobCard(_ context.Context, garageID, jobCardID int64) (*invoice.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.GarageID == garageID && inv.JobCardID == jobCardID {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockRepository) List(_ context.Context, garageID int64, status string, _, _ int) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	for _, inv := range m.invoices {
		if inv.GarageID != garageID {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		copied := *inv
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, inv *invoice.Invoice) error {
	if _, ok := m.invoices[inv.ID]; !ok {
		return errors.New("record not found")
	}
	copied := *inv
	m.invoices[inv.ID] = &copied
	return nil
}

func (m *mockRepository) RecordPayment(_ context.Context, p *invoice.Payment) error {
	p.ID = int64(len(m.payments) + 1)
	m.payments = append(m.payments, *p)
	return nil
}

func (m *mockRepository) NextNumber(_ context.Context, _ int64, _ int) (int64, error) {
	seq := m.nextSeq
	m.nextSeq++
	return seq, nil
}

type mockJobSource struct {
	completed map[int64]*jobcard.JobCard
}

func (m *mockJobSource) GetCompleted(_ context.Context, garageID, id int64) (*jobcard.JobCard, error) {
	j, ok := m.completed[id]
	if !ok || j.GarageID != garageID {
		return nil, errors.New("record not found")
	}
	return j, nil
}

var _ = Describe("Invoice Service", func() {
	var (
		repo *mockRepository
		jobs *mockJobSource
		svc  *invoice.Service
		ctx  context.Context
	)

	const garageID = int64(3)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	completedJob := func(id int64) *jobcard.JobCard {
		return &jobcard.JobCard{
			ID:         id,
			GarageID:   garageID,
			CustomerID: 21,
			Status:     jobcard.StatusCompleted,
			Items: []jobcard.JobItem{
				{Description: "brake pads", Kind: jobcard.ItemKindPart, Quantity: 2, UnitPrice: 2500, Total: 5000},
				{Description: "fitting labor", Kind: jobcard.ItemKindLabor, Quantity: 1, UnitPrice: 1500, Total: 1500},
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		jobs = &mockJobSource{completed: map[int64]*jobcard.JobCard{8: completedJob(8)}}
		svc = invoice.NewService(repo, jobs, discard)
	})

	Describe("Create", func() {
		It("copies the job lines and applies the tax rate", func() {
			inv, err := svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 8, TaxRateBps: 1800})
			Expect(err).NotTo(HaveOccurred())

			Expect(inv.Subtotal).To(Equal(int64(6500)))
			Expect(inv.TaxAmount).To(Equal(int64(1170)))
			Expect(inv.GrandTotal).To(Equal(int64(7670)))
			Expect(inv.Status).To(Equal(invoice.StatusUnpaid))
			Expect(inv.Lines).To(HaveLen(2))
			Expect(inv.CustomerID).To(Equal(int64(21)))
		})

		It("numbers invoices per garage and year", func() {
			first, err := svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 8})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Number).To(MatchRegexp(`^INV-3-\d{4}-0001$`))
		})

		It("refuses a job card that is not completed", func() {
			_, err := svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 99})
			Expect(err).To(Equal(internal.ErrInvalidJobStatus))
		})

		It("refuses a second invoice for the same job card", func() {
			_, err := svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 8})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 8})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAlreadyInvoiced))
		})

		It("rejects a tax rate beyond 100 percent", func() {
			_, err := svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 8, TaxRateBps: 10001})
			Expect(err).To(BeAssignableToTypeOf(invoice.ValidationError{}))
		})
	})

	Describe("RecordPayment", func() {
		var inv *invoice.Invoice

		BeforeEach(func() {
			var err error
			inv, err = svc.Create(ctx, garageID, invoice.CreateInvoiceDTO{JobCardID: 8, TaxRateBps: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.GrandTotal).To(Equal(int64(6500)))
		})

		It("moves through partially paid to paid", func() {
			got, err := svc.RecordPayment(ctx, garageID, inv.ID, invoice.RecordPaymentDTO{Amount: 2500, Method: invoice.PaymentMethodCash})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(invoice.StatusPartial))
			Expect(got.Balance()).To(Equal(int64(4000)))

			got, err = svc.RecordPayment(ctx, garageID, inv.ID, invoice.RecordPaymentDTO{Amount: 4000, Method: invoice.PaymentMethodCard})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(invoice.StatusPaid))
			Expect(got.Balance()).To(BeZero())
		})

		It("rejects a payment that overshoots the balance", func() {
			_, err := svc.RecordPayment(ctx, garageID, inv.ID, invoice.RecordPaymentDTO{Amount: 6501, Method: invoice.PaymentMethodCash})
			Expect(err).To(Equal(internal.ErrOverpayment))
			Expect(repo.payments).To(BeEmpty())
		})

		It("rejects overshoot on the remainder too", func() {
			_, err := svc.RecordPayment(ctx, garageID, inv.ID, invoice.RecordPaymentDTO{Amount: 6000, Method: invoice.PaymentMethodCash})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.RecordPayment(ctx, garageID, inv.ID, invoice.RecordPaymentDTO{Amount: 501, Method: invoice.PaymentMethodCash})
			Expect(err).To(Equal(internal.ErrOverpayment))
		})

		It("rejects an unknown payment method", func() {
			_, err := svc.RecordPayment(ctx, garageID, inv.ID, invoice.RecordPaymentDTO{Amount: 100, Method: "barter"})
			Expect(err).To(BeAssignableToTypeOf(invoice.ValidationError{}))
		})

		It("scopes the invoice to the garage", func() {
			_, err := svc.RecordPayment(ctx, garageID+1, inv.ID, invoice.RecordPaymentDTO{Amount: 100, Method: invoice.PaymentMethodCash})
			Expect(err).To(Equal(internal.ErrInvoiceNotFound))
		})
	})
})
