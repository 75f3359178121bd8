package inventory_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/inventory"
)

func TestInventoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Service Suite")
}

type mockRepository struct {
	parts     map[int64]*inventory.Part
	movements []inventory.StockMovement
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{parts: make(map[int64]*inventory.Part), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, p *inventory.Part) error {
	p.ID = m.nextID
	m.nextID++
	copied := *p
	m.parts[p.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, garageID, id int64) (*inventory.Part, error) {
	p, ok := m.parts[id]
	if !ok || p.GarageID != garageID {
		return nil, errors.New("record not found")
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepository) List(_ context.Context, garageID int64, _, _ int) ([]*inventory.Part, error) {
	var out []*inventory.Part
	for _, p := range m.parts {
		if p.GarageID == garageID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) ListBelowReorder(_ context.Context, garageID int64) ([]*inventory.Part, error) {
	var out []*inventory.Part
	for _, p := range m.parts {
		if p.GarageID == garageID && p.NeedsReorder() {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, p *inventory.Part) error {
	if _, ok := m.parts[p.ID]; !ok {
		return errors.New("record not found")
	}
	copied := *p
	m.parts[p.ID] = &copied
	return nil
}

func (m *mockRepository) AdjustQuantity(_ context.Context, garageID, id, delta int64) error {
	p, ok := m.parts[id]
	if !ok || p.GarageID != garageID {
		return errors.New("record not found")
	}
	if p.Quantity+delta < 0 {
		return errors.New("stock adjustment rejected")
	}
	p.Quantity += delta
	return nil
}

func (m *mockRepository) RecordMovement(_ context.Context, mv *inventory.StockMovement) error {
	mv.ID = int64(len(m.movements) + 1)
	m.movements = append(m.movements, *mv)
	return nil
}

var _ = Describe("Inventory Service", func() {
	var (
		repo *mockRepository
		svc  *inventory.Service
		ctx  context.Context
		part *inventory.Part
	)

	const garageID = int64(2)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		svc = inventory.NewService(repo, discard)

		var err error
		part, err = svc.Create(ctx, garageID, inventory.CreatePartDTO{
			SKU:          "FLT-OIL-01",
			Name:         "Oil filter",
			UnitPrice:    650,
			Quantity:     10,
			ReorderLevel: 3,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Issue", func() {
		It("deducts stock, records the movement and returns the stock price", func() {
			price, err := svc.Issue(ctx, garageID, part.ID, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(price).To(Equal(int64(650)))

			got, err := svc.GetByID(ctx, garageID, part.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Quantity).To(Equal(int64(6)))

			Expect(repo.movements).To(HaveLen(1))
			Expect(repo.movements[0].Kind).To(Equal(inventory.MovementIssue))
			Expect(repo.movements[0].Quantity).To(Equal(int64(4)))
		})

		It("refuses to issue more than is on hand", func() {
			_, err := svc.Issue(ctx, garageID, part.ID, 11)
			Expect(err).To(Equal(internal.ErrInsufficientStock))

			got, _ := svc.GetByID(ctx, garageID, part.ID)
			Expect(got.Quantity).To(Equal(int64(10)))
			Expect(repo.movements).To(BeEmpty())
		})

		It("refuses a non-positive quantity", func() {
			_, err := svc.Issue(ctx, garageID, part.ID, 0)
			Expect(err).To(BeAssignableToTypeOf(inventory.ValidationError{}))
		})

		It("does not see parts from another garage", func() {
			_, err := svc.Issue(ctx, garageID+1, part.ID, 1)
			Expect(err).To(Equal(internal.ErrPartNotFound))
		})
	})

	Describe("Receive", func() {
		It("adds stock and records the movement", func() {
			got, err := svc.Receive(ctx, garageID, part.ID, inventory.ReceiveStockDTO{Quantity: 5, Note: "supplier delivery"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Quantity).To(Equal(int64(15)))

			Expect(repo.movements).To(HaveLen(1))
			Expect(repo.movements[0].Kind).To(Equal(inventory.MovementReceive))
		})
	})

	Describe("LowStock", func() {
		It("surfaces parts at or below their reorder level", func() {
			_, err := svc.Issue(ctx, garageID, part.ID, 7)
			Expect(err).NotTo(HaveOccurred())

			low, err := svc.LowStock(ctx, garageID)
			Expect(err).NotTo(HaveOccurred())
			Expect(low).To(HaveLen(1))
			Expect(low[0].SKU).To(Equal("FLT-OIL-01"))
		})

		It("is empty while stock sits above the level", func() {
			low, err := svc.LowStock(ctx, garageID)
			Expect(err).NotTo(HaveOccurred())
			Expect(low).To(BeEmpty())
		})
	})
})
