package jobcard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/core/events"
	"github.com/autowerk/garage-management/internal/jobcard"
)

func TestJobCardService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "JobCard Service Suite")
}

type mockRepository struct {
	cards  map[int64]*jobcard.JobCard
	items  []jobcard.JobItem
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{cards: make(map[int64]*jobcard.JobCard), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, j *jobcard.JobCard) error {
	j.ID = m.nextID
	m.nextID++
	copied := *j
	m.cards[j.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, garageID, id int64) (*jobcard.JobCard, error) {
	j, ok := m.cards[id]
	if !ok || j.GarageID != garageID {
		return nil, errors.New("record not found")
	}
	copied := *j
	copied.Items = append([]jobcard.JobItem(nil), m.itemsFor(id)...)
	return &copied, nil
}

func (m *mockRepository) itemsFor(jobCardID int64) []jobcard.JobItem {
	var out []jobcard.JobItem
	for _, item := range m.items {
		if item.JobCardID == jobCardID {
			out = append(out, item)
		}
	}
	return out
}

func (m *mockRepository) List(_ context.Context, garageID int64, status string, _, _ int) ([]*jobcard.JobCard, error) {
	var out []*jobcard.JobCard
	for _, j := range m.cards {
		if j.GarageID != garageID {
			continue
		}
		if status != "" && j.Status != status {
			continue
		}
		copied := *j
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, j *jobcard.JobCard) error {
	if _, ok := m.cards[j.ID]; !ok {
		return errors.New("record not found")
	}
	copied := *j
	copied.Items = nil
	m.cards[j.ID] = &copied
	return nil
}

func (m *mockRepository) AddItem(_ context.Context, item *jobcard.JobItem) error {
	item.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *item)
	return nil
}

type mockVehicleChecker struct {
	known map[int64]bool
}

func (m *mockVehicleChecker) Exists(_ context.Context, _, vehicleID int64) (bool, error) {
	return m.known[vehicleID], nil
}

type mockPartIssuer struct {
	unitPrice int64
	err       error
	issued    []int64
}

func (m *mockPartIssuer) Issue(_ context.Context, _, partID, _ int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.issued = append(m.issued, partID)
	return m.unitPrice, nil
}

var _ = Describe("JobCard Service", func() {
	var (
		repo     *mockRepository
		vehicles *mockVehicleChecker
		parts    *mockPartIssuer
		bus      *events.EventBus
		svc      *jobcard.Service
		ctx      context.Context
	)

	const garageID = int64(10)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	openCard := func() *jobcard.JobCard {
		j, err := svc.Create(ctx, garageID, jobcard.CreateJobCardDTO{
			VehicleID:  1,
			CustomerID: 7,
			Complaint:  "engine knocking at idle",
		})
		Expect(err).NotTo(HaveOccurred())
		return j
	}

	advance := func(id int64, statuses ...string) *jobcard.JobCard {
		var j *jobcard.JobCard
		var err error
		for _, st := range statuses {
			j, err = svc.UpdateStatus(ctx, garageID, id, jobcard.UpdateStatusDTO{Status: st})
			Expect(err).NotTo(HaveOccurred())
		}
		return j
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		vehicles = &mockVehicleChecker{known: map[int64]bool{1: true}}
		parts = &mockPartIssuer{unitPrice: 4500}
		bus = events.NewEventBus(discard)
		svc = jobcard.NewService(repo, vehicles, parts, bus, discard)
	})

	Describe("Create", func() {
		It("opens a job card in open status", func() {
			j := openCard()
			Expect(j.Status).To(Equal(jobcard.StatusOpen))
			Expect(j.OpenedAt).NotTo(BeZero())
		})

		It("rejects a vehicle the garage does not know", func() {
			_, err := svc.Create(ctx, garageID, jobcard.CreateJobCardDTO{
				VehicleID:  99,
				CustomerID: 7,
				Complaint:  "brakes",
			})
			Expect(err).To(Equal(internal.ErrVehicleNotFound))
		})

		It("rejects a missing complaint", func() {
			_, err := svc.Create(ctx, garageID, jobcard.CreateJobCardDTO{VehicleID: 1, CustomerID: 7})
			Expect(err).To(BeAssignableToTypeOf(jobcard.ValidationError{}))
		})
	})

	Describe("UpdateStatus", func() {
		It("walks the full lifecycle one step at a time", func() {
			j := openCard()
			j = advance(j.ID, jobcard.StatusInProgress, jobcard.StatusCompleted, jobcard.StatusDelivered)
			Expect(j.Status).To(Equal(jobcard.StatusDelivered))
			Expect(j.CompletedAt).NotTo(BeNil())
			Expect(j.DeliveredAt).NotTo(BeNil())
		})

		It("rejects skipping a step", func() {
			j := openCard()
			_, err := svc.UpdateStatus(ctx, garageID, j.ID, jobcard.UpdateStatusDTO{Status: jobcard.StatusCompleted})
			Expect(err).To(Equal(internal.ErrInvalidJobStatus))
		})

		It("rejects moving backwards", func() {
			j := openCard()
			advance(j.ID, jobcard.StatusInProgress)
			_, err := svc.UpdateStatus(ctx, garageID, j.ID, jobcard.UpdateStatusDTO{Status: jobcard.StatusOpen})
			Expect(err).To(Equal(internal.ErrInvalidJobStatus))
		})

		It("rejects any move past delivered", func() {
			j := openCard()
			advance(j.ID, jobcard.StatusInProgress, jobcard.StatusCompleted, jobcard.StatusDelivered)
			_, err := svc.UpdateStatus(ctx, garageID, j.ID, jobcard.UpdateStatusDTO{Status: jobcard.StatusDelivered})
			Expect(err).To(Equal(internal.ErrInvalidJobStatus))
		})
	})

	Describe("AddItem", func() {
		It("prices labor lines from the request", func() {
			j := openCard()
			item, err := svc.AddItem(ctx, garageID, j.ID, jobcard.AddItemDTO{
				Kind:        jobcard.ItemKindLabor,
				Description: "valve adjustment",
				Quantity:    2,
				UnitPrice:   3000,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Total).To(Equal(int64(6000)))
			Expect(parts.issued).To(BeEmpty())
		})

		It("prices part lines from stock and deducts inventory", func() {
			j := openCard()
			partID := int64(42)
			item, err := svc.AddItem(ctx, garageID, j.ID, jobcard.AddItemDTO{
				Kind:        jobcard.ItemKindPart,
				Description: "oil filter",
				PartID:      &partID,
				Quantity:    3,
				UnitPrice:   1, // ignored for part lines
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(item.UnitPrice).To(Equal(int64(4500)))
			Expect(item.Total).To(Equal(int64(13500)))
			Expect(parts.issued).To(Equal([]int64{42}))
		})

		It("propagates stock shortage without recording the line", func() {
			j := openCard()
			parts.err = internal.ErrInsufficientStock

			partID := int64(42)
			_, err := svc.AddItem(ctx, garageID, j.ID, jobcard.AddItemDTO{
				Kind:        jobcard.ItemKindPart,
				Description: "oil filter",
				PartID:      &partID,
				Quantity:    3,
			})
			Expect(err).To(Equal(internal.ErrInsufficientStock))
			Expect(repo.items).To(BeEmpty())
		})

		It("refuses lines on completed job cards", func() {
			j := openCard()
			advance(j.ID, jobcard.StatusInProgress, jobcard.StatusCompleted)
			_, err := svc.AddItem(ctx, garageID, j.ID, jobcard.AddItemDTO{
				Kind:        jobcard.ItemKindLabor,
				Description: "late addition",
				Quantity:    1,
				UnitPrice:   100,
			})
			Expect(err).To(Equal(internal.ErrInvalidJobStatus))
		})
	})

	Describe("AssignTechnician", func() {
		It("stores the technician on a live card", func() {
			j := openCard()
			got, err := svc.AssignTechnician(ctx, garageID, j.ID, jobcard.AssignTechnicianDTO{TechnicianID: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(*got.TechnicianID).To(Equal(int64(5)))
		})

		It("refuses on a delivered card", func() {
			j := openCard()
			advance(j.ID, jobcard.StatusInProgress, jobcard.StatusCompleted, jobcard.StatusDelivered)
			_, err := svc.AssignTechnician(ctx, garageID, j.ID, jobcard.AssignTechnicianDTO{TechnicianID: 5})
			Expect(err).To(Equal(internal.ErrInvalidJobStatus))
		})
	})

	It("scopes lookups to the garage", func() {
		j := openCard()
		_, err := svc.GetByID(ctx, garageID+1, j.ID)
		Expect(err).To(Equal(internal.ErrJobCardNotFound))
	})
})
